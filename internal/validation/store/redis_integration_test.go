//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"fiscalcheck/internal/validation/models"
	"fiscalcheck/pkg/platform/sentinel"
	"fiscalcheck/pkg/testutil/containers"
)

type RedisSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *Redis
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(RedisSuite))
}

func (s *RedisSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = NewRedis(s.redis.Client)
}

func (s *RedisSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisSuite) TestRoundTrip() {
	ctx := context.Background()
	report := sampleReport()
	report.Issues = []models.Issue{{
		Code:     models.CodeVATMismatch,
		Severity: models.SeverityMedium,
		Rule:     models.RuleVATConsistency,
		Message:  "declared VAT differs",
		Details:  map[string]string{"computed": "220.00"},
	}}
	report.PerRuleChecks = map[models.Rule]models.RuleCheck{
		models.RuleVATConsistency: {
			Computed: decimal.RequireFromString("220"),
			Declared: decimal.Zero,
			Delta:    decimal.RequireFromString("220"),
		},
	}
	report.Timestamp = time.Date(2024, 11, 5, 9, 0, 0, 0, time.UTC)

	s.Require().NoError(s.cache.Set(ctx, "k", report, time.Minute))

	got, err := s.cache.Get(ctx, "k")
	s.Require().NoError(err)
	s.Equal(report.Issues, got.Issues)
	s.True(report.Timestamp.Equal(got.Timestamp))
	s.True(got.PerRuleChecks[models.RuleVATConsistency].Computed.Equal(decimal.RequireFromString("220")))

	ttl, err := s.redis.Client.TTL(ctx, reportKeyPrefix+"k").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisSuite) TestMissIsNotFound() {
	_, err := s.cache.Get(context.Background(), "absent")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
