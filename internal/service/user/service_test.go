package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/productivity-backend-go/internal/service/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (user.UserService, fixtures.Repositories, fixtures.Demo) {
	t.Helper()
	repos := fixtures.NewRepositories()
	demo, err := fixtures.SeedDemo(context.Background(), repos.Users)
	require.NoError(t, err)

	svc := NewUserService(repos.Users, repos.Uploads, importer.NewParser(fixtures.Clock()), logger.Discard(), fixtures.Clock())
	return svc, repos, demo
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, _, demo := newTestService(t)
	req := user.CreateUserRequest{Email: "dave@company.com", Name: "Dave", Password: fixtures.Password, Role: "agent", ManagerID: &demo.Manager.ID}

	_, err := svc.Create(ctx, demo.Manager, req)
	assert.ErrorIs(t, err, user.ErrAdminAccessRequired)

	created, err := svc.Create(ctx, demo.Admin, req)
	require.NoError(t, err)
	assert.True(t, created.ReportsTo(demo.Manager.ID))

	_, err = svc.Create(ctx, demo.Admin, req)
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	req.Email = "erin@company.com"
	req.Password = strings.Repeat("é", 40)
	_, err = svc.Create(ctx, demo.Admin, req)
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Equal(t, "password must be at most 72 bytes", validationErrs.ToMap()["password"])
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, demo := newTestService(t)
	name := "Alice A."
	role := "manager"

	updated, err := svc.Update(ctx, demo.Alice, user.UpdateUserRequest{ID: demo.Alice.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	_, err = svc.Update(ctx, demo.Alice, user.UpdateUserRequest{ID: demo.Alice.ID, Role: &role})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = svc.Update(ctx, demo.Manager, user.UpdateUserRequest{ID: demo.Alice.ID, Name: &name})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	updated, err = svc.Update(ctx, demo.Admin, user.UpdateUserRequest{ID: demo.Alice.ID, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, updated.Role)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, _, demo := newTestService(t)

	all, err := svc.List(ctx, demo.Admin)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	team, err := svc.List(ctx, demo.Manager)
	require.NoError(t, err)
	require.Len(t, team, 2)
	assert.ElementsMatch(t, []string{demo.Alice.ID, demo.Bob.ID}, []string{team[0].ID, team[1].ID})

	_, err = svc.List(ctx, demo.Alice)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestAssignAgents(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t)

	result, err := svc.AssignAgents(ctx, demo.Admin, user.AssignAgentsRequest{
		ManagerID: demo.Manager.ID,
		AgentIDs:  []string{demo.Carol.ID, demo.Admin.ID, "user-missing"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.AssignedAgents)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, []string{demo.Admin.ID, "user-missing"}, result.SkippedIDs)

	carol, err := repos.Users.GetByID(ctx, demo.Carol.ID)
	require.NoError(t, err)
	assert.True(t, carol.ReportsTo(demo.Manager.ID))

	_, err = svc.AssignAgents(ctx, demo.Admin, user.AssignAgentsRequest{ManagerID: demo.Alice.ID, AgentIDs: []string{demo.Bob.ID}})
	assert.ErrorIs(t, err, user.ErrNotAManager)

	_, err = svc.AssignAgents(ctx, demo.Admin, user.AssignAgentsRequest{ManagerID: "user-missing", AgentIDs: []string{demo.Bob.ID}})
	assert.ErrorIs(t, err, user.ErrManagerNotFound)

	_, err = svc.AssignAgents(ctx, demo.Manager, user.AssignAgentsRequest{ManagerID: demo.Manager.ID, AgentIDs: []string{demo.Carol.ID}})
	assert.ErrorIs(t, err, user.ErrAdminAccessRequired)
}

func TestImportAssignments(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t)

	content := []byte("manager_email,manager_name,manager_department,agent_email,agent_name\n" +
		"lead@company.com,Lena Lead,Support,erin@company.com,Erin\n" +
		"lead@company.com,,,frank@company.com,Frank\n" +
		"manager@company.com,,,carol@company.com,Carol\n" +
		"alice@company.com,,,gina@company.com,Gina\n" +
		"lead@company.com,,,manager@company.com,Maria\n" +
		"not-an-email,,,hank@company.com,Hank\n")

	result, err := svc.ImportAssignments(ctx, demo.Admin, "assignments.csv", content)
	require.NoError(t, err)

	assert.Equal(t, 6, result.RowsProcessed)
	assert.Equal(t, 1, result.CreatedManagers)
	assert.Equal(t, 2, result.CreatedAgents)
	assert.Equal(t, 3, result.AssignedAgents)
	assert.Equal(t, 3, result.SkippedRows)
	assert.NotEmpty(t, result.UploadID)

	erin, err := repos.Users.GetByEmail(ctx, "erin@company.com")
	require.NoError(t, err)
	lead, err := repos.Users.GetByEmail(ctx, "lead@company.com")
	require.NoError(t, err)
	assert.True(t, erin.ReportsTo(lead.ID))
	require.NotNil(t, erin.Department)
	assert.Equal(t, "Support", *erin.Department)

	_, err = repos.Users.VerifyCredentials(ctx, "frank@company.com", importer.DefaultPassword)
	assert.NoError(t, err)

	carol, err := repos.Users.GetByID(ctx, demo.Carol.ID)
	require.NoError(t, err)
	assert.True(t, carol.ReportsTo(demo.Manager.ID))

	reasons := map[string]string{}
	for _, s := range result.Skipped {
		reasons[s.Identifier] = s.Reason
	}
	assert.Equal(t, reasonManagerRole, reasons["alice@company.com"])
	assert.Equal(t, reasonAgentRole, reasons["manager@company.com"])
	assert.Equal(t, "Invalid manager email", reasons["hank@company.com"])

	history, err := repos.Uploads.ListBulkUploads(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, upload.KindAssignments, history[0].Kind)
	assert.Equal(t, upload.StatusCompleted, history[0].Status)
	assert.Equal(t, 3, history[0].RowsSuccessful)
	assert.Equal(t, 3, history[0].RowsFailed)
	assert.Len(t, history[0].ErrorDetails, 3)
}

func TestImportAssignments_OverlongPasswordSkipsRow(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t)

	content := []byte("manager_email,agent_email,agent_name,agent_password\n" +
		"manager@company.com,erin@company.com,Erin,\n" +
		"manager@company.com,frank@company.com,Frank," + strings.Repeat("p", 80) + "\n" +
		"manager@company.com,gina@company.com,Gina,\n")

	result, err := svc.ImportAssignments(ctx, demo.Admin, "assignments.csv", content)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CreatedAgents)
	assert.Equal(t, 1, result.SkippedRows)

	_, err = repos.Users.GetByEmail(ctx, "gina@company.com")
	assert.NoError(t, err)
	_, err = repos.Users.GetByEmail(ctx, "frank@company.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	history, err := repos.Uploads.ListBulkUploads(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].RowsSuccessful)
	assert.Equal(t, 1, history[0].RowsFailed)
}

func TestRowRejection(t *testing.T) {
	invalid := validator.ValidationErrors{{Field: "password", Message: "password must be at most 72 bytes"}}

	reason, ok := rowRejection(fmt.Errorf("failed to create agent x@y.com: %w", invalid))
	assert.True(t, ok)
	assert.Equal(t, "password: password must be at most 72 bytes", reason)

	_, ok = rowRejection(fmt.Errorf("failed to create agent x@y.com: %w", user.ErrUserEmailExists))
	assert.True(t, ok)

	_, ok = rowRejection(errors.New("connection reset"))
	assert.False(t, ok)

	_, ok = rowRejection(nil)
	assert.False(t, ok)
}

func TestImportAssignments_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, repos, demo := newTestService(t)

	_, err := svc.ImportAssignments(ctx, demo.Manager, "a.csv", []byte("manager_email,agent_email,agent_name\n"))
	assert.ErrorIs(t, err, user.ErrAdminAccessRequired)

	_, err = svc.ImportAssignments(ctx, demo.Admin, "a.xls", []byte("whatever"))
	assert.ErrorIs(t, err, upload.ErrUnsupportedFormat)

	result, err := svc.ImportAssignments(ctx, demo.Admin, "a.csv", []byte("email,name\nx@y.com,X\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, result.RowsProcessed)
	assert.Equal(t, 1, result.SkippedRows)

	history, err := repos.Uploads.ListBulkUploads(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, upload.StatusFailed, history[0].Status)
}
