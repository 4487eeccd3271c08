package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/authstore/pkg/adapter"
	"github.com/tendant/authstore/pkg/config"
	"github.com/tendant/authstore/pkg/sqlexec"
)

// Drives a full user/session/verification-token lifecycle against a
// configured endpoint. Set AUTHSTORE_HTTP_URL (or AUTHSTORE_DB_HOST plus
// credentials) before running.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	exec := sqlexec.NewClient(cfg.HTTP.Endpoint(), cfg.HTTP.Username, cfg.HTTP.Password,
		sqlexec.WithHTTPClient(&http.Client{Timeout: cfg.HTTP.Timeout}))
	store := adapter.New(exec, adapter.WithLogger(logger))

	ctx := context.Background()

	email := "demo-" + uuid.New().String() + "@example.com"
	user, err := store.CreateUser(ctx, adapter.Record{"name": "Demo User", "email": email})
	if err != nil {
		slog.Error("create user failed", "err", err)
		os.Exit(1)
	}
	slog.Info("created user", "id", user["id"], "email", email)

	byEmail, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		slog.Error("get user by email failed", "err", err)
		os.Exit(1)
	}
	slog.Info("fetched user by email", "found", byEmail != nil)

	token := uuid.New().String()
	expires := time.Now().Add(24 * time.Hour).UTC()
	if _, err := store.CreateSession(ctx, adapter.Record{
		"sessionToken": token,
		"userId":       user["id"],
		"expires":      expires,
	}); err != nil {
		slog.Error("create session failed", "err", err)
		os.Exit(1)
	}

	pair, err := store.GetSessionAndUser(ctx, token)
	if err != nil {
		slog.Error("get session and user failed", "err", err)
		os.Exit(1)
	}
	if pair == nil {
		slog.Error("session vanished between create and lookup")
		os.Exit(1)
	}
	slog.Info("session resolved", "user_id", pair.Session["user_id"], "expires", pair.Session["expires"])

	if _, err := store.UpdateSession(ctx, adapter.Record{
		"sessionToken": token,
		"expires":      expires.Add(24 * time.Hour),
	}); err != nil {
		slog.Error("update session failed", "err", err)
		os.Exit(1)
	}

	if err := store.DeleteSession(ctx, token); err != nil {
		slog.Error("delete session failed", "err", err)
		os.Exit(1)
	}
	if pair, err = store.GetSessionAndUser(ctx, token); err != nil {
		slog.Error("post-delete lookup failed", "err", err)
		os.Exit(1)
	}
	slog.Info("session deleted", "still_present", pair != nil)

	vt := adapter.Record{
		"identifier": email,
		"token":      uuid.New().String(),
		"expires":    time.Now().Add(15 * time.Minute).UTC(),
	}
	if _, err := store.CreateVerificationToken(ctx, vt); err != nil {
		slog.Error("create verification token failed", "err", err)
		os.Exit(1)
	}

	first, err := store.UseVerificationToken(ctx, email, vt["token"].(string))
	if err != nil {
		slog.Error("use verification token failed", "err", err)
		os.Exit(1)
	}
	second, err := store.UseVerificationToken(ctx, email, vt["token"].(string))
	if err != nil {
		slog.Error("second use of verification token failed", "err", err)
		os.Exit(1)
	}
	slog.Info("verification token single-use", "first", first != nil, "second", second != nil)
}
