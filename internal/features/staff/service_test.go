package staff

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/features/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) Create(ctx context.Context, s *Staff) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStaffRepository) FindByID(ctx context.Context, id string) (*Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Staff), args.Error(1)
}

func (m *MockStaffRepository) List(ctx context.Context, filter map[string]interface{}) ([]Staff, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]Staff), args.Error(1)
}

func (m *MockStaffRepository) SetName(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

type renamer struct {
	calls []string
	err   error
}

func (r *renamer) PropagateStaffRename(ctx context.Context, staffID, newName string, actor models.Actor) error {
	r.calls = append(r.calls, staffID+"="+newName)
	return r.err
}

type auditRecorder struct {
	audit.AuditService
	actions []audit.Action
	err     error
}

func (a *auditRecorder) LogChange(ctx context.Context, action audit.Action, module, recordID string, changes map[string]audit.Change, actor models.Actor) error {
	a.actions = append(a.actions, action)
	return a.err
}

var admin = models.Actor{ID: "adm", Name: "Root", Role: models.RoleAdmin}

func newService(repo *MockStaffRepository) (*StaffServiceImpl, *renamer, *auditRecorder) {
	names := &renamer{}
	rec := &auditRecorder{}
	return &StaffServiceImpl{
		Repo:   repo,
		Names:  names,
		Audit:  rec,
		Logger: zap.NewNop(),
		nowFn:  func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) },
	}, names, rec
}

func TestCreateStaff(t *testing.T) {
	repo := new(MockStaffRepository)
	svc, _, rec := newService(repo)

	repo.On("FindByID", mock.Anything, "sup").Return(&Staff{ID: "sup", Role: models.RoleSupervisor}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*staff.Staff")).Return(nil)

	member, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Name:         " Ana ",
		Role:         models.RoleBroker,
		SupervisorID: "sup",
		Commission:   1500,
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, "Ana", member.Name)
	assert.NotEmpty(t, member.ID)
	assert.Equal(t, []audit.Action{audit.ActionCreate}, rec.actions)
	repo.AssertExpectations(t)
}

func TestCreateStaffValidation(t *testing.T) {
	repo := new(MockStaffRepository)
	svc, _, _ := newService(repo)
	ctx := context.Background()

	_, err := svc.CreateStaff(ctx, CreateStaffRequest{Name: "x", Role: models.RoleBroker}, models.Actor{ID: "s", Role: models.RoleSupervisor})
	assert.True(t, errs.Is(err, errs.KindValidation))

	_, err = svc.CreateStaff(ctx, CreateStaffRequest{Name: " ", Role: models.RoleBroker}, admin)
	assert.True(t, errs.Is(err, errs.KindValidation))

	_, err = svc.CreateStaff(ctx, CreateStaffRequest{Name: "x", Role: "intern"}, admin)
	assert.True(t, errs.Is(err, errs.KindValidation))

	_, err = svc.CreateStaff(ctx, CreateStaffRequest{Name: "x", Role: models.RoleBroker, Commission: -1}, admin)
	assert.True(t, errs.Is(err, errs.KindValidation))

	repo.On("FindByID", mock.Anything, "b1").Return(&Staff{ID: "b1", Role: models.RoleBroker}, nil)
	_, err = svc.CreateStaff(ctx, CreateStaffRequest{Name: "x", Role: models.RoleBroker, SupervisorID: "b1"}, admin)
	assert.True(t, errs.Is(err, errs.KindValidation))

	repo.On("FindByID", mock.Anything, "ghost").Return(nil, errs.NotFound("staff.find", "missing"))
	_, err = svc.CreateStaff(ctx, CreateStaffRequest{Name: "x", Role: models.RoleBroker, SupervisorID: "ghost"}, admin)
	assert.True(t, errs.Is(err, errs.KindValidation))

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRenameStaffGoesThroughSynchronizer(t *testing.T) {
	repo := new(MockStaffRepository)
	svc, names, rec := newService(repo)
	repo.On("FindByID", mock.Anything, "a").Return(&Staff{ID: "a", Name: "Ana"}, nil)

	require.NoError(t, svc.RenameStaff(context.Background(), "a", " Ana María ", admin))
	assert.Equal(t, []string{"a=Ana María"}, names.calls)
	assert.Equal(t, []audit.Action{audit.ActionUpdate}, rec.actions)
	repo.AssertNotCalled(t, "SetName", mock.Anything, mock.Anything, mock.Anything)
}

func TestRenameStaffFailure(t *testing.T) {
	repo := new(MockStaffRepository)
	svc, names, rec := newService(repo)
	repo.On("FindByID", mock.Anything, "a").Return(&Staff{ID: "a", Name: "Ana"}, nil)
	names.err = errs.CommitFailed("cascade.staff_rename", errors.New("boom"))

	err := svc.RenameStaff(context.Background(), "a", "Bea", admin)
	assert.True(t, errs.Is(err, errs.KindCommitFailed))
	assert.Empty(t, rec.actions)

	err = svc.RenameStaff(context.Background(), "a", "Bea", models.Actor{ID: "b", Role: models.RoleBroker})
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestAuditFailureDoesNotFailCreate(t *testing.T) {
	repo := new(MockStaffRepository)
	svc, _, rec := newService(repo)
	rec.err = errors.New("audit down")
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CreateStaff(context.Background(), CreateStaffRequest{Name: "x", Role: models.RoleAdmin}, admin)
	assert.NoError(t, err)
}
