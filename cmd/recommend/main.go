// recommend prints job recommendations as JSON.
//
//	recommend -user <id>           score against the user's stored profile
//	recommend -skills "C#,Azure"   score against an ad-hoc skill list
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobboard/discovery-service/internal/config"
	"jobboard/discovery-service/internal/db"
	"jobboard/discovery-service/internal/logger"
	"jobboard/discovery-service/internal/match"
	"jobboard/discovery-service/internal/model"
	"jobboard/discovery-service/internal/storage/postgres"
)

func main() {
	userID := flag.String("user", "", "user id whose stored skill profile is used")
	skills := flag.String("skills", "", "comma-separated skills; overrides -user")
	flag.Parse()

	if *userID == "" && *skills == "" {
		fmt.Fprintln(os.Stderr, "usage: recommend -user <id> | -skills <a,b,c>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatal("postgres", zap.Error(err))
	}
	defer pool.Close()

	scorer := match.NewScorer(cfg.Vocabulary.BonusKeywords, time.Now)
	rec := match.NewRecommender(postgres.New(pool), scorer, cfg.Vocabulary.FallbackKeywords, log)

	var jobs []model.ScoredJob
	if *skills != "" {
		jobs, err = rec.Recommend(ctx, model.UserSkillProfile{UserID: *userID, Skills: splitList(*skills)})
	} else {
		jobs, err = rec.RecommendForUser(ctx, *userID)
	}
	if err != nil {
		log.Fatal("recommend", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jobs); err != nil {
		log.Fatal("encode", zap.Error(err))
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
