package repository

import (
	"context"

	"github.com/examgate/examgate-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IPRuleRepository handles exam IP allow/deny rule data access.
type IPRuleRepository struct {
	pool *pgxpool.Pool
}

// NewIPRuleRepository creates a new IPRuleRepository.
func NewIPRuleRepository(pool *pgxpool.Pool) *IPRuleRepository {
	return &IPRuleRepository{pool: pool}
}

// ListByExam retrieves all IP rules attached to an exam.
func (r *IPRuleRepository) ListByExam(ctx context.Context, db DB, examID uuid.UUID) ([]model.ExamIPRule, error) {
	rows, err := db.Query(ctx,
		`SELECT id, exam_id, rule_type, cidr
		 FROM exam_ip_rules
		 WHERE exam_id = $1
		 ORDER BY id`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []model.ExamIPRule
	for rows.Next() {
		var rule model.ExamIPRule
		if err := rows.Scan(&rule.ID, &rule.ExamID, &rule.RuleType, &rule.CIDR); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
