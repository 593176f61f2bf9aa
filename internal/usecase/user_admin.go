package usecase

import (
	"context"
	"errors"
	"io"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"lms-dashboard/internal/domain"
	"lms-dashboard/pkg/query"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)

// NewRowValidator returns the validator used for bulk user rows. Field
// names in errors are the JSON names.
func NewRowValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})
	return v
}

// ValidPassword requires at least 8 characters with a letter and a digit.
func ValidPassword(p string) bool {
	if utf8.RuneCountInString(p) < 8 {
		return false
	}
	var letter, digit bool
	for _, r := range p {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

func rowProblems(err error) []domain.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.FieldError{{Field: "row", Message: err.Error()}}
	}
	out := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, domain.FieldError{Field: fe.Field(), Message: rowMessage(fe)})
	}
	return out
}

func rowMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of " + fe.Param()
	case "username":
		return "must be 3-30 letters, digits, '_' or '.'"
	case "password":
		return "must be at least 8 characters with a letter and a digit"
	}
	return "is invalid"
}

func normalizeRow(r domain.NewUserRow) domain.NewUserRow {
	return domain.NewUserRow{
		Username: strings.TrimSpace(r.Username),
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Role:     domain.Role(strings.ToLower(strings.TrimSpace(string(r.Role)))),
		Password: r.Password,
	}
}

// ========== USER ADMIN USECASE ==========

type userAdminUsecase struct {
	userRepo   domain.UserRepository
	exportRepo domain.ExportRepository
	audit      *auditor
	validate   *validator.Validate
	pageSize   int
	now        func() time.Time
}

func NewUserAdminUsecase(ur domain.UserRepository, exports domain.ExportRepository, audit domain.AuditRepository, pageSize int) domain.UserAdminUsecase {
	return &userAdminUsecase{
		userRepo:   ur,
		exportRepo: exports,
		audit:      newAuditor(audit),
		validate:   NewRowValidator(),
		pageSize:   pageSize,
		now:        time.Now,
	}
}

var userSorts = map[string]query.Comparator[domain.User]{
	"username":    query.ByString(func(u domain.User) string { return u.Username }),
	"name":        query.ByString(func(u domain.User) string { return u.Name }),
	"email":       query.ByString(func(u domain.User) string { return u.Email }),
	"role":        query.ByString(func(u domain.User) string { return string(u.Role) }),
	"loginStreak": query.ByNumber(func(u domain.User) int { return u.LoginStreak }),
	"createdAt":   query.ByTime(func(u domain.User) time.Time { return u.CreatedAt }),
}

func userPredicate(f domain.UserFilter) func(domain.User) bool {
	return query.And(
		func(u domain.User) bool { return query.MatchAny(f.Query, u.Username, u.Name, u.Email, string(u.Role)) },
		func(u domain.User) bool { return f.Role == "" || u.Role == f.Role },
		func(u domain.User) bool { return f.Verified == nil || u.IsVerified == *f.Verified },
	)
}

func (uc *userAdminUsecase) List(ctx context.Context, s *domain.Session, f domain.UserFilter) (query.Page[domain.User], error) {
	users, err := uc.userRepo.GetAll(ctx, s.BackendToken)
	if err != nil {
		return query.Page[domain.User]{}, err
	}
	return query.Collection(users, query.Options[domain.User]{
		Predicate: userPredicate(f),
		Compare:   query.Sorter(query.ParseSort(f.Sort), userSorts),
		Page:      f.Page,
		PageSize:  pageSizeOr(f.PageSize, uc.pageSize),
	}), nil
}

func (uc *userAdminUsecase) ChangeRole(ctx context.Context, s *domain.Session, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.NewValidationError(domain.FieldError{Field: "role", Message: "must be one of student instructor admin"})
	}
	if id == s.UserID {
		return nil, domain.NewValidationError(domain.FieldError{Field: "id", Message: "you cannot change your own role"})
	}
	user, err := uc.userRepo.UpdateRole(ctx, s.BackendToken, id, role)
	uc.audit.record(ctx, s, "user.role", id, map[string]interface{}{"role": string(role)}, err)
	return user, err
}

func (uc *userAdminUsecase) QuickEdit(ctx context.Context, s *domain.Session, id string, req domain.QuickEditRequest) (*domain.User, error) {
	if req.Name == nil && req.Email == nil && req.IsVerified == nil {
		return nil, domain.NewValidationError(domain.FieldError{Field: "name", Message: "nothing to update"})
	}
	payload := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.NewValidationError(domain.FieldError{Field: "name", Message: "must not be empty"})
		}
		req.Name = &name
		payload["name"] = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if err := uc.validate.Var(email, "required,email"); err != nil {
			return nil, domain.NewValidationError(domain.FieldError{Field: "email", Message: "must be a valid email"})
		}
		req.Email = &email
		payload["email"] = email
	}
	if req.IsVerified != nil {
		payload["isVerified"] = *req.IsVerified
	}
	user, err := uc.userRepo.QuickUpdate(ctx, s.BackendToken, id, req)
	uc.audit.record(ctx, s, "user.quick_edit", id, payload, err)
	return user, err
}

// BulkCreate validates every row, reports the invalid ones and sends the
// valid ones to the backend in a single call.
func (uc *userAdminUsecase) BulkCreate(ctx context.Context, s *domain.Session, rows []domain.NewUserRow) (*domain.BulkUserResult, error) {
	numbers := make([]int, len(rows))
	for i := range rows {
		numbers[i] = i + 1
	}
	return uc.bulkCreate(ctx, s, rows, numbers)
}

func (uc *userAdminUsecase) ImportWorkbook(ctx context.Context, s *domain.Session, r io.Reader) (*domain.BulkUserResult, error) {
	records, err := readWorkbook(r, "username", "name", "email", "role", "password")
	if err != nil {
		return nil, err
	}
	rows := make([]domain.NewUserRow, len(records))
	numbers := make([]int, len(records))
	for i, rec := range records {
		rows[i] = domain.NewUserRow{
			Username: rec.Values["username"],
			Name:     rec.Values["name"],
			Email:    rec.Values["email"],
			Role:     domain.Role(rec.Values["role"]),
			Password: rec.Values["password"],
		}
		numbers[i] = rec.Row
	}
	return uc.bulkCreate(ctx, s, rows, numbers)
}

func (uc *userAdminUsecase) bulkCreate(ctx context.Context, s *domain.Session, rows []domain.NewUserRow, numbers []int) (*domain.BulkUserResult, error) {
	if len(rows) == 0 {
		return nil, domain.NewValidationError(domain.FieldError{Field: "users", Message: "must contain at least one row"})
	}

	result := &domain.BulkUserResult{}
	valid := make([]domain.NewUserRow, 0, len(rows))
	for i, raw := range rows {
		row := normalizeRow(raw)
		if err := uc.validate.Struct(row); err != nil {
			result.Invalid = append(result.Invalid, domain.BulkRowProblem{Row: numbers[i], Errors: rowProblems(err)})
			continue
		}
		valid = append(valid, row)
	}
	if len(valid) == 0 {
		return result, nil
	}

	created, err := uc.userRepo.BulkCreate(ctx, s.BackendToken, valid)
	uc.audit.record(ctx, s, "user.bulk_create", "", map[string]interface{}{
		"rows":    len(rows),
		"valid":   len(valid),
		"created": created,
	}, err)
	if err != nil {
		return nil, err
	}
	result.Created = created
	return result, nil
}

var userExportHeader = []string{"ID", "Username", "Name", "Email", "Role", "Verified", "Login Streak", "Created At"}

// Export renders every user matching f (all pages) as a workbook and stores
// it for download.
func (uc *userAdminUsecase) Export(ctx context.Context, s *domain.Session, f domain.UserFilter) (*domain.ExportFile, error) {
	users, err := uc.userRepo.GetAll(ctx, s.BackendToken)
	if err != nil {
		return nil, err
	}
	all := query.Collection(users, query.Options[domain.User]{
		Predicate: userPredicate(f),
		Compare:   query.Sorter(query.ParseSort(f.Sort), userSorts),
		PageSize:  max(len(users), 1),
	})

	rows := make([][]interface{}, len(all.Items))
	for i, u := range all.Items {
		rows[i] = []interface{}{u.ID, u.Username, u.Name, u.Email, string(u.Role), u.IsVerified, u.LoginStreak, formatTime(u.CreatedAt)}
	}
	buf, err := writeWorkbook(userExportHeader, rows)
	if err != nil {
		return nil, err
	}
	file, err := storeExport(ctx, uc.exportRepo, s, "users", len(rows), buf, uc.now())
	uc.audit.record(ctx, s, "user.export", "", map[string]interface{}{"rows": len(rows)}, err)
	return file, err
}
