package service

import (
	"context"
	"os"
	"testing"

	"meetup-api/core/config"
	"meetup-api/core/errors"
	"meetup-api/core/middleware"
	"meetup-api/core/params"
	"meetup-api/core/push"
	notifEntity "meetup-api/modules/notification/entity"
	notifService "meetup-api/modules/notification/service"
	"meetup-api/modules/user/dto"
	"meetup-api/modules/user/entity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	// Token issuance reads the JWT settings from the loaded config.
	if _, err := config.Load(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeUserRepo struct {
	users    map[uuid.UUID]*entity.User
	byEmail  map[string]*entity.User
	setCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[uuid.UUID]*entity.User),
		byEmail: make(map[string]*entity.User),
	}
}

func (f *fakeUserRepo) add(user *entity.User) *entity.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	f.byEmail[user.Email] = user
	return user
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	copied := *user
	return f.add(&copied), nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	if u, ok := f.byEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetPendingUsers(ctx context.Context, p params.QueryParams) ([]entity.User, int, error) {
	result := make([]entity.User, 0)
	for _, u := range f.users {
		if u.ApprovalState == entity.ApprovalPending {
			result = append(result, *u)
		}
	}
	return result, len(result), nil
}

func (f *fakeUserRepo) SetApprovalState(ctx context.Context, id uuid.UUID, state entity.ApprovalState) (bool, error) {
	f.setCalls++
	u, ok := f.users[id]
	if !ok || u.ApprovalState != entity.ApprovalPending {
		return false, nil
	}
	u.ApprovalState = state
	return true, nil
}

func (f *fakeUserRepo) UpdatePushToken(ctx context.Context, id uuid.UUID, token string) error {
	if u, ok := f.users[id]; ok {
		u.PushToken = &token
	}
	return nil
}

func (f *fakeUserRepo) GetUserName(ctx context.Context, id uuid.UUID) (string, error) {
	if u, ok := f.users[id]; ok {
		return u.Name, nil
	}
	return "", nil
}

type memoryNotifRepo struct {
	created []notifEntity.Notification
}

func (m *memoryNotifRepo) Create(ctx context.Context, n *notifEntity.Notification) error {
	m.created = append(m.created, *n)
	return nil
}

func (m *memoryNotifRepo) GetByUserID(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*notifEntity.PaginatedNotificationEntity, error) {
	return &notifEntity.PaginatedNotificationEntity{}, nil
}

func (m *memoryNotifRepo) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return nil
}

func (m *memoryNotifRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error { return nil }

func (m *memoryNotifRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return 0, nil
}

func (m *memoryNotifRepo) GetPushToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "", nil
}

type userFixture struct {
	repo      *fakeUserRepo
	notifRepo *memoryNotifRepo
	svc       UserServiceInterface
}

func newUserFixture() *userFixture {
	repo := newFakeUserRepo()
	notifRepo := &memoryNotifRepo{}
	notifs := notifService.NewNotificationService(notifRepo, push.NoopSender{})
	return &userFixture{
		repo:      repo,
		notifRepo: notifRepo,
		svc:       NewUserService(repo, notifs),
	}
}

func (f *userFixture) seedUser(state entity.ApprovalState) *entity.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	return f.repo.add(&entity.User{
		Name:          "An",
		Email:         uuid.NewString() + "@example.com",
		PasswordHash:  string(hash),
		Role:          middleware.RoleUser,
		ApprovalState: state,
	})
}

func TestRegisterCreatesPendingUser(t *testing.T) {
	f := newUserFixture()

	resp, appErr := f.svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Binh",
		Email:    "binh@example.com",
		Password: "hunter2hunter2",
	})
	if appErr != nil {
		t.Fatalf("Register() error = %v", appErr)
	}
	if resp.Token == "" {
		t.Error("Register() returned an empty token")
	}
	if resp.User.ApprovalState != string(entity.ApprovalPending) {
		t.Errorf("approval state = %q, want %q", resp.User.ApprovalState, entity.ApprovalPending)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newUserFixture()
	existing := f.seedUser(entity.ApprovalActive)

	_, appErr := f.svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Copycat",
		Email:    existing.Email,
		Password: "hunter2hunter2",
	})
	if appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Fatalf("Register() = %v, want already exists", appErr)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newUserFixture()
	user := f.seedUser(entity.ApprovalActive)

	_, appErr := f.svc.Login(context.Background(), &dto.LoginRequest{
		Email:    user.Email,
		Password: "not-the-password",
	})
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("Login() = %v, want unauthorized", appErr)
	}
}

func TestLoginRefreshesPushToken(t *testing.T) {
	f := newUserFixture()
	user := f.seedUser(entity.ApprovalActive)

	_, appErr := f.svc.Login(context.Background(), &dto.LoginRequest{
		Email:     user.Email,
		Password:  "hunter2hunter2",
		PushToken: "ExponentPushToken[new]",
	})
	if appErr != nil {
		t.Fatalf("Login() error = %v", appErr)
	}

	stored := f.repo.users[user.ID].PushToken
	if stored == nil || *stored != "ExponentPushToken[new]" {
		t.Errorf("push token = %v, want refreshed value", stored)
	}
}

func TestApproveRequiresAdmin(t *testing.T) {
	f := newUserFixture()
	user := f.seedUser(entity.ApprovalPending)

	_, appErr := f.svc.Approve(context.Background(), middleware.RoleUser, user.ID)
	if appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Fatalf("Approve() = %v, want forbidden", appErr)
	}
	if f.repo.setCalls != 0 {
		t.Error("approval state was touched by a non-admin")
	}
}

func TestApprovePendingUser(t *testing.T) {
	f := newUserFixture()
	user := f.seedUser(entity.ApprovalPending)

	resp, appErr := f.svc.Approve(context.Background(), middleware.RoleAdmin, user.ID)
	if appErr != nil {
		t.Fatalf("Approve() error = %v", appErr)
	}
	if resp.ApprovalState != string(entity.ApprovalActive) {
		t.Errorf("approval state = %q, want %q", resp.ApprovalState, entity.ApprovalActive)
	}

	if len(f.notifRepo.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(f.notifRepo.created))
	}
	n := f.notifRepo.created[0]
	if n.UserID != user.ID {
		t.Errorf("recipient = %s, want %s", n.UserID, user.ID)
	}
	if n.Type != notifEntity.TypeAdminApproval {
		t.Errorf("type = %q, want %q", n.Type, notifEntity.TypeAdminApproval)
	}
	if approved := n.Data["approved"]; approved != true {
		t.Errorf("data approved = %v, want true", approved)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	f := newUserFixture()
	user := f.seedUser(entity.ApprovalActive)

	resp, appErr := f.svc.Approve(context.Background(), middleware.RoleAdmin, user.ID)
	if appErr != nil {
		t.Fatalf("Approve() on active user = %v, want no-op success", appErr)
	}
	if resp.ApprovalState != string(entity.ApprovalActive) {
		t.Errorf("approval state = %q, want %q", resp.ApprovalState, entity.ApprovalActive)
	}
	if f.repo.setCalls != 0 {
		t.Error("no-op approval still wrote state")
	}
	if len(f.notifRepo.created) != 0 {
		t.Error("no-op approval fanned out a notification")
	}
}

func TestRejectAfterApproveConflicts(t *testing.T) {
	f := newUserFixture()
	user := f.seedUser(entity.ApprovalActive)

	_, appErr := f.svc.Reject(context.Background(), middleware.RoleAdmin, user.ID)
	if appErr == nil || appErr.Code != errors.ErrConflict {
		t.Fatalf("Reject() on approved user = %v, want conflict", appErr)
	}
}

func TestRejectPendingUser(t *testing.T) {
	f := newUserFixture()
	user := f.seedUser(entity.ApprovalPending)

	resp, appErr := f.svc.Reject(context.Background(), middleware.RoleAdmin, user.ID)
	if appErr != nil {
		t.Fatalf("Reject() error = %v", appErr)
	}
	if resp.ApprovalState != string(entity.ApprovalRejected) {
		t.Errorf("approval state = %q, want %q", resp.ApprovalState, entity.ApprovalRejected)
	}
	if len(f.notifRepo.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(f.notifRepo.created))
	}
	if approved := f.notifRepo.created[0].Data["approved"]; approved != false {
		t.Errorf("data approved = %v, want false", approved)
	}
}

func TestApproveMissingUser(t *testing.T) {
	f := newUserFixture()

	_, appErr := f.svc.Approve(context.Background(), middleware.RoleAdmin, uuid.New())
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("Approve() = %v, want not found", appErr)
	}
}
