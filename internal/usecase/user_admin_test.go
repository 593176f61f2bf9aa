package usecase

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"lms-dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestUserAdmin(users *MockUserRepository, exports *MockExportRepository, audit *MockAuditRepository) *userAdminUsecase {
	uc := NewUserAdminUsecase(users, nil, nil, 50).(*userAdminUsecase)
	if exports != nil {
		uc.exportRepo = exports
	}
	if audit != nil {
		uc.audit = newAuditor(audit)
	}
	uc.now = func() time.Time { return now }
	return uc
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("abcdefg1"))
	assert.False(t, ValidPassword("abcdefgh"))
	assert.False(t, ValidPassword("12345678"))
	assert.False(t, ValidPassword("abc1"))
}

func TestUserAdmin_List(t *testing.T) {
	verified := false
	users := new(MockUserRepository)
	users.On("GetAll", mock.Anything, "tok-admin").Return([]domain.User{
		{ID: "1", Username: "zed", Role: domain.RoleStudent, IsVerified: true},
		{ID: "2", Username: "amy", Role: domain.RoleStudent},
		{ID: "3", Username: "bo", Role: domain.RoleAdmin},
	}, nil)
	uc := newTestUserAdmin(users, nil, nil)

	page, err := uc.List(context.Background(), adminSession, domain.UserFilter{
		ListParams: domain.ListParams{Sort: "username"},
		Verified:   &verified,
	})

	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "amy", page.Items[0].Username)
	assert.Equal(t, "bo", page.Items[1].Username)
}

func TestUserAdmin_ChangeRole(t *testing.T) {
	ctx := context.Background()

	t.Run("own role", func(t *testing.T) {
		users := new(MockUserRepository)
		uc := newTestUserAdmin(users, nil, nil)

		_, err := uc.ChangeRole(ctx, adminSession, "u-admin", domain.RoleStudent)

		assert.ErrorIs(t, err, domain.ErrValidation)
		users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := newTestUserAdmin(new(MockUserRepository), nil, nil).ChangeRole(ctx, adminSession, "u2", "root")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("ok", func(t *testing.T) {
		users := new(MockUserRepository)
		audit := new(MockAuditRepository)
		users.On("UpdateRole", mock.Anything, "tok-admin", "u2", domain.RoleInstructor).
			Return(&domain.User{ID: "u2", Role: domain.RoleInstructor}, nil).Once()
		audit.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.AuditEvent) bool {
			return e.Action == "user.role" && e.Payload["role"] == "instructor"
		})).Return(nil).Once()

		u, err := newTestUserAdmin(users, nil, audit).ChangeRole(ctx, adminSession, "u2", domain.RoleInstructor)

		require.NoError(t, err)
		assert.Equal(t, domain.RoleInstructor, u.Role)
		audit.AssertExpectations(t)
	})
}

func TestUserAdmin_QuickEdit(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	uc := newTestUserAdmin(users, nil, nil)

	_, err := uc.QuickEdit(ctx, adminSession, "u2", domain.QuickEditRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	bad := "not-an-email"
	_, err = uc.QuickEdit(ctx, adminSession, "u2", domain.QuickEditRequest{Email: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	name := "Ada"
	padded := "  Ada "
	users.On("QuickUpdate", mock.Anything, "tok-admin", "u2", domain.QuickEditRequest{Name: &name}).
		Return(&domain.User{ID: "u2", Name: "Ada"}, nil).Once()
	u, err := uc.QuickEdit(ctx, adminSession, "u2", domain.QuickEditRequest{Name: &padded})
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
}

func TestUserAdmin_BulkCreate(t *testing.T) {
	rows := []domain.NewUserRow{
		{Username: "ada_l", Name: "Ada", Email: "ada@example.com", Role: "Student", Password: "secret123"},
		{Username: "x", Name: "Bad", Email: "nope", Role: "wizard", Password: "short"},
		{Username: " grace.h ", Name: "Grace", Email: "grace@example.com", Role: domain.RoleInstructor, Password: "hopper1234"},
	}
	valid := []domain.NewUserRow{
		{Username: "ada_l", Name: "Ada", Email: "ada@example.com", Role: domain.RoleStudent, Password: "secret123"},
		{Username: "grace.h", Name: "Grace", Email: "grace@example.com", Role: domain.RoleInstructor, Password: "hopper1234"},
	}
	users := new(MockUserRepository)
	users.On("BulkCreate", mock.Anything, "tok-admin", valid).Return(2, nil).Once()

	res, err := newTestUserAdmin(users, nil, nil).BulkCreate(context.Background(), adminSession, rows)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	require.Len(t, res.Invalid, 1)
	assert.Equal(t, 2, res.Invalid[0].Row)

	fields := map[string]bool{}
	for _, fe := range res.Invalid[0].Errors {
		fields[fe.Field] = true
	}
	assert.Equal(t, map[string]bool{"username": true, "email": true, "role": true, "password": true}, fields)
	users.AssertNumberOfCalls(t, "BulkCreate", 1)
}

func TestUserAdmin_BulkCreate_NothingValid(t *testing.T) {
	users := new(MockUserRepository)
	res, err := newTestUserAdmin(users, nil, nil).BulkCreate(context.Background(), adminSession, []domain.NewUserRow{{Username: "x"}})

	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Len(t, res.Invalid, 1)
	users.AssertNotCalled(t, "BulkCreate", mock.Anything, mock.Anything, mock.Anything)
}

func workbook(t *testing.T, rows ...[]interface{}) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestUserAdmin_ImportWorkbook(t *testing.T) {
	ctx := context.Background()

	t.Run("reports sheet rows", func(t *testing.T) {
		file := workbook(t,
			[]interface{}{"Email", "Username", "Name", "Role", "Password"},
			[]interface{}{"ada@example.com", "ada_l", "Ada", "student", "secret123"},
			[]interface{}{" ", "", "", "", ""},
			[]interface{}{"broken", "ok_name", "Bob", "student", "secret123"},
		)
		users := new(MockUserRepository)
		users.On("BulkCreate", mock.Anything, "tok-admin", []domain.NewUserRow{
			{Username: "ada_l", Name: "Ada", Email: "ada@example.com", Role: domain.RoleStudent, Password: "secret123"},
		}).Return(1, nil).Once()

		res, err := newTestUserAdmin(users, nil, nil).ImportWorkbook(ctx, adminSession, file)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Created)
		require.Len(t, res.Invalid, 1)
		assert.Equal(t, 4, res.Invalid[0].Row)
		assert.Equal(t, "email", res.Invalid[0].Errors[0].Field)
	})

	t.Run("missing column", func(t *testing.T) {
		file := workbook(t, []interface{}{"username", "name", "email"})

		_, err := newTestUserAdmin(new(MockUserRepository), nil, nil).ImportWorkbook(ctx, adminSession, file)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := newTestUserAdmin(new(MockUserRepository), nil, nil).ImportWorkbook(ctx, adminSession, bytes.NewBufferString("a,b,c"))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestUserAdmin_Export(t *testing.T) {
	users := new(MockUserRepository)
	exports := new(MockExportRepository)
	users.On("GetAll", mock.Anything, "tok-admin").Return([]domain.User{
		{ID: "1", Username: "ada", Role: domain.RoleStudent},
		{ID: "2", Username: "bo", Role: domain.RoleAdmin},
	}, nil).Once()

	var saved []byte
	exports.On("Save", mock.Anything, mock.MatchedBy(func(m domain.ExportFile) bool {
		return m.Kind == "users" && m.Rows == 1 && m.CreatedBy == "u-admin" && m.Filename == "users-20250320-120000.xlsx"
	}), mock.Anything).Run(func(args mock.Arguments) {
		saved, _ = io.ReadAll(args.Get(2).(io.Reader))
	}).Return(&domain.ExportFile{ID: "f1", Rows: 1}, nil).Once()

	file, err := newTestUserAdmin(users, exports, nil).Export(context.Background(), adminSession, domain.UserFilter{Role: domain.RoleAdmin})

	require.NoError(t, err)
	assert.Equal(t, "f1", file.ID)

	wb, err := excelize.OpenReader(bytes.NewReader(saved))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Username", rows[0][1])
	assert.Equal(t, "bo", rows[1][1])
}
