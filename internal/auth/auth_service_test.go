package auth

import (
	"context"
	"testing"
	"time"

	autherrors "leaveflow/internal/auth/errors"
	"leaveflow/internal/employee"
	"leaveflow/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	createFn     func(ctx context.Context, user *User) error
	getByEmailFn func(ctx context.Context, email string) (*User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*User, error)
}

func (f *fakeUserRepository) Create(ctx context.Context, user *User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return nil
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRBACService struct {
	loadedCompanies []string
}

func (f *fakeRBACService) LoadCompanyPolicy(companyID string) error {
	f.loadedCompanies = append(f.loadedCompanies, companyID)
	return nil
}

func (f *fakeRBACService) Enforce(req rbac.EnforceRequest) (bool, error) {
	return true, nil
}

type fakeEmployeeLookup struct {
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeLookup) WithTx(tx *gorm.DB) employee.Repository { return f }
func (f *fakeEmployeeLookup) Create(ctx context.Context, empl *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeLookup) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeLookup) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeLookup) FindManagerID(ctx context.Context, companyID, employeeID string) (*string, error) {
	return nil, nil
}
func (f *fakeEmployeeLookup) FindOldestByRole(ctx context.Context, companyID, role string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeLookup) Update(ctx context.Context, empl *employee.Employee) error { return nil }
func (f *fakeEmployeeLookup) Delete(ctx context.Context, companyID, id string) error    { return nil }

func newActiveUser(t *testing.T, password string) *User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)

	employeeID := uuid.New()
	return &User{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		EmployeeID: &employeeID,
		Name:       "Ana Widya",
		Email:      "ana@acme.test",
		Password:   string(hashed),
		Role:       "EMPLOYEE",
		IsActive:   true,
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success issues tokens with full claim set", func(t *testing.T) {
		user := newActiveUser(t, "s3cret")
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*User, error) {
				assert.Equal(t, user.Email, email)
				return user, nil
			},
		}
		rbacSvc := &fakeRBACService{}
		svc := NewService(repo, rbacSvc, &fakeEmployeeLookup{})

		accessToken, refreshToken, resp, err := svc.Login(context.Background(), user.Email, "s3cret")

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, user.Email, resp.Email)
		assert.Equal(t, []string{user.CompanyID.String()}, rbacSvc.loadedCompanies)

		token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, user.ID.String(), claims["user_id"])
		assert.Equal(t, user.EmployeeID.String(), claims["employee_id"])
		assert.Equal(t, user.CompanyID.String(), claims["company_id"])
		assert.Equal(t, user.Role, claims["role"])
	})

	t.Run("negative wrong password", func(t *testing.T) {
		user := newActiveUser(t, "s3cret")
		repo := &fakeUserRepository{
			getByEmailFn: func(ctx context.Context, email string) (*User, error) {
				return user, nil
			},
		}
		svc := NewService(repo, &fakeRBACService{}, &fakeEmployeeLookup{})

		_, _, _, err := svc.Login(context.Background(), user.Email, "wrong")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		svc := NewService(&fakeUserRepository{}, &fakeRBACService{}, &fakeEmployeeLookup{})

		_, _, _, err := svc.Login(context.Background(), "ghost@acme.test", "s3cret")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := newActiveUser(t, "s3cret")
	repo := &fakeUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) { return user, nil },
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*User, error) {
			assert.Equal(t, user.ID, id)
			return user, nil
		},
	}
	svc := NewService(repo, &fakeRBACService{}, &fakeEmployeeLookup{})

	_, refreshToken, _, err := svc.Login(context.Background(), user.Email, "s3cret")
	assert.NoError(t, err)

	t.Run("success rotates both tokens", func(t *testing.T) {
		newAccess, newRefresh, resp, err := svc.RefreshToken(context.Background(), refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, user.ID.String(), resp.ID)
	})

	t.Run("negative garbage token", func(t *testing.T) {
		_, _, _, err := svc.RefreshToken(context.Background(), "not.a.jwt")

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("negative expired token", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": user.ID.String(),
			"exp":     time.Now().Add(-time.Minute).Unix(),
		})
		signed, err := expired.SignedString([]byte("test-secret"))
		assert.NoError(t, err)

		_, _, _, err = svc.RefreshToken(context.Background(), signed)

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	companyID := uuid.New()
	employeeID := uuid.New()

	t.Run("success inherits role from employee record", func(t *testing.T) {
		emplRepo := &fakeEmployeeLookup{
			findByIDAndCompanyFn: func(ctx context.Context, cID, id string) (*employee.Employee, error) {
				assert.Equal(t, companyID.String(), cID)
				return &employee.Employee{ID: employeeID, CompanyID: companyID, Role: employee.RoleManager}, nil
			},
		}
		var created *User
		repo := &fakeUserRepository{
			createFn: func(ctx context.Context, user *User) error {
				created = user
				return nil
			},
		}
		svc := NewService(repo, &fakeRBACService{}, emplRepo)

		resp, err := svc.Register(context.Background(), RegisterRequest{
			Name:       "Ana Widya",
			Email:      "ana@acme.test",
			Password:   "s3cret",
			CompanyID:  companyID.String(),
			EmployeeID: employeeID.String(),
		})

		assert.NoError(t, err)
		assert.Equal(t, employee.RoleManager, resp.Role)
		assert.NotNil(t, created)
		assert.True(t, created.IsActive)
		assert.NotEqual(t, "s3cret", created.Password)
	})

	t.Run("negative employee must exist in company", func(t *testing.T) {
		svc := NewService(&fakeUserRepository{}, &fakeRBACService{}, &fakeEmployeeLookup{})

		_, err := svc.Register(context.Background(), RegisterRequest{
			Name:       "Ghost",
			Email:      "ghost@acme.test",
			Password:   "s3cret",
			CompanyID:  companyID.String(),
			EmployeeID: uuid.New().String(),
		})

		assert.Error(t, err)
	})
}
