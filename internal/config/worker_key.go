package config

type WorkerKeyStruct struct {
	AttemptActivityQueue string
}

var WorkerKey = &WorkerKeyStruct{
	AttemptActivityQueue: "attempt_activity_queue",
}
