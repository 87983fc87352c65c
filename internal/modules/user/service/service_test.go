package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"slotskolan.se/forum/internal/entity"
	reputationRepo "slotskolan.se/forum/internal/modules/reputation/repository"
	reputation "slotskolan.se/forum/internal/modules/reputation/service"
	"slotskolan.se/forum/internal/modules/user/dto"
	"slotskolan.se/forum/internal/modules/user/repository"
	"slotskolan.se/forum/internal/testutil"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/token"
)

func newTestService(t *testing.T) (UserService, *token.Manager, func() *entity.User) {
	db := testutil.NewDB(t)
	tokens := token.NewManager("test-secret", time.Hour)
	svc := NewUserService(
		repository.NewUserRepository(db),
		tokens,
		reputation.NewReputationService(reputationRepo.NewReputationRepository(db)),
	)
	admin := func() *entity.User { return testutil.CreateUser(t, db, "Admin", entity.RoleAdmin) }
	return svc, tokens, admin
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, dto.RegisterInput{Username: "Spelaren", Email: "Spelare@Example.se", Password: "hemligt123"})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if reg.User.Role != entity.RoleUser || reg.User.Reputation != 0 {
		t.Errorf("unexpected profile %+v", reg.User)
	}
	if reg.User.RankName != "Nybörjare" {
		t.Errorf("unexpected rank %q", reg.User.RankName)
	}

	id, err := tokens.Parse(reg.AccessToken)
	if err != nil || id != reg.User.ID {
		t.Fatalf("token does not carry user id: %v", err)
	}

	if _, err := svc.Login(ctx, dto.LoginInput{Email: "spelare@example.se", Password: "hemligt123"}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	_, err = svc.Login(ctx, dto.LoginInput{Email: "spelare@example.se", Password: "fel"})
	if apperror.MapErrorToStatus(err) != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %v", err)
	}

	_, err = svc.Register(ctx, dto.RegisterInput{Username: "Spelaren", Email: "annan@example.se", Password: "hemligt123"})
	if apperror.MapErrorToStatus(err) != http.StatusConflict {
		t.Errorf("expected 409 for duplicate username, got %v", err)
	}
}

func TestUpdateRole(t *testing.T) {
	svc, _, newAdmin := newTestService(t)
	ctx := context.Background()
	admin := newAdmin()

	reg, err := svc.Register(ctx, dto.RegisterInput{Username: "Mod", Email: "mod@example.se", Password: "hemligt123"})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if err := svc.UpdateRole(ctx, admin, reg.User.ID, entity.RoleModerator); err != nil {
		t.Fatalf("UpdateRole() error: %v", err)
	}
	profile, err := svc.GetProfile(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("GetProfile() error: %v", err)
	}
	if profile.Role != entity.RoleModerator {
		t.Errorf("role = %s, want MODERATOR", profile.Role)
	}

	moderator := &entity.User{ID: reg.User.ID, Role: entity.RoleModerator}
	err = svc.UpdateRole(ctx, moderator, admin.ID, entity.RoleUser)
	if apperror.MapErrorToStatus(err) != http.StatusForbidden {
		t.Errorf("expected 403 for moderator, got %v", err)
	}

	err = svc.UpdateRole(ctx, admin, admin.ID, entity.RoleUser)
	if apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for self demotion, got %v", err)
	}
}
