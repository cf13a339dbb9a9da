package ftauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mrra1yan/FootballTalento/internal"
	"github.com/mrra1yan/FootballTalento/internal/stores"
	"github.com/mrra1yan/FootballTalento/notify"
)

func TestVerifyEmailUnlocksLogin(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newMockStore()
	capture := &captureNotifier{}
	engine := newTestEngine(t, rdb, store, capture)
	ctx := context.Background()

	if _, err := engine.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Login is blocked before verification.
	_, err := engine.Login(ctx, LoginInput{Identifier: "alice@example.com", Password: "Str0ng!pass"})
	if !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified before verification, got %v", err)
	}

	msg := capture.waitForMessage(t, notify.KindVerifyEmail)
	verifyToken := tokenFromLink(t, msg.Params["link"])

	account, err := engine.VerifyEmail(ctx, verifyToken)
	if err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}
	if account.Username != "alice" {
		t.Fatalf("VerifyEmail resolved %q", account.Username)
	}

	if _, err := engine.Login(ctx, LoginInput{Identifier: "alice@example.com", Password: "Str0ng!pass"}); err != nil {
		t.Fatalf("Login after verification failed: %v", err)
	}

	welcome := capture.waitForMessage(t, notify.KindWelcome)
	if welcome.Params["account_type"] != "player" {
		t.Fatalf("welcome mail missing account details: %v", welcome.Params)
	}
	if welcome.Params["currency"] != "EUR" {
		t.Fatalf("welcome mail currency %q", welcome.Params["currency"])
	}
}

func TestVerifyEmailTokenIsSingleUse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newMockStore()
	capture := &captureNotifier{}
	engine := newTestEngine(t, rdb, store, capture)
	ctx := context.Background()

	if _, err := engine.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	verifyToken := tokenFromLink(t, capture.waitForMessage(t, notify.KindVerifyEmail).Params["link"])

	if _, err := engine.VerifyEmail(ctx, verifyToken); err != nil {
		t.Fatalf("first VerifyEmail failed: %v", err)
	}
	if _, err := engine.VerifyEmail(ctx, verifyToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("second VerifyEmail: expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyEmailExpiredLinkReadsAsInvalid(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newMockStore()
	hasher := newTestHasher(t)
	account := seedVerifiedAccount(t, store, hasher, "alice@example.com", "alice", "Str0ng!pass")
	account.EmailVerified = false
	store.seed(t, account)

	engine := newTestEngine(t, rdb, store, &captureNotifier{})
	ctx := context.Background()

	// Deployments that give verification links a lifetime still report a
	// dead link as invalid, never as the reset flow's expiry.
	cleartext := "expired-verification-token"
	record := &stores.ChallengeRecord{
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(-time.Minute).UnixNano(),
	}
	if err := engine.verifications.Save(ctx, internal.HashToken(cleartext), record, time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err := engine.VerifyEmail(ctx, cleartext)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if errors.Is(err, ErrTokenExpired) {
		t.Fatalf("verification expiry must not surface as ErrTokenExpired, got %v", err)
	}
}

func TestVerifyEmailRejectsUnknownAndMissingToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	engine := newTestEngine(t, rdb, newMockStore(), &captureNotifier{})
	ctx := context.Background()

	if _, err := engine.VerifyEmail(ctx, "never-issued"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := engine.VerifyEmail(ctx, ""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}
