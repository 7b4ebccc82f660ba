package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/examgate/examgate-backend/internal/accesscode"
	"github.com/examgate/examgate-backend/internal/config"
	"github.com/examgate/examgate-backend/internal/database"
	"github.com/examgate/examgate-backend/internal/logger"
	"github.com/examgate/examgate-backend/internal/model"
	"github.com/examgate/examgate-backend/internal/repository"
)

// gen-codes registers students in bulk, one per line of a names file (or
// stdin), and prints the generated access code next to each name. The
// output is meant to be handed to proctors as a printable roster.
func main() {
	var namesFile string
	flag.StringVar(&namesFile, "file", "", "Path to a file with one student name per line (default stdin)")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	codes, err := accesscode.New(cfg.CodeAlphabet, cfg.CodeGroups, cfg.CodeGroupLen)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid access code configuration")
	}

	studentRepo := repository.NewStudentRepository(pool)

	input := os.Stdin
	if namesFile != "" {
		f, err := os.Open(namesFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", namesFile).Msg("Failed to open names file")
		}
		defer f.Close()
		input = f
	}

	created := 0
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}

		code, err := codes.Generate()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to generate code")
		}

		student := &model.Student{Name: name, Code: code}
		if err := studentRepo.Create(ctx, student); err != nil {
			// Code collisions are rare but possible; retry once.
			code, rerr := codes.Generate()
			if rerr != nil {
				log.Fatal().Err(rerr).Msg("Failed to generate code")
			}
			student.Code = code
			if err := studentRepo.Create(ctx, student); err != nil {
				log.Fatal().Err(err).Str("name", name).Msg("Failed to create student")
			}
		}

		fmt.Printf("%-40s %s\n", student.Name, student.Code)
		created++
	}
	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to read names")
	}

	fmt.Printf("\nCreated %d students\n", created)
}
