package user

import (
	"context"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("user not found")
	ErrEmailExists        = core.NewConflictError("email", "a user with this email already exists")
	ErrInvalidCredentials = core.NewUnauthorizedError("invalid email or password")
	ErrTokenExpired       = core.NewUnauthorizedError("token expired, please login again")
	ErrTokenInvalid       = core.NewUnauthorizedError("invalid token, please login again")
	ErrTokenUserNotFound  = core.NewUnauthorizedError("token is valid but user not found, please login again")
)

const welcomeTemplate = "welcome"

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		CountUsersByEmail(ctx context.Context, email string) (int64, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service interface {
		Signup(ctx context.Context, nu NewUser) (AuthResult, error)
		Login(ctx context.Context, creds Credentials) (AuthResult, error)
		VerifyToken(ctx context.Context, token string) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		SetPassword(ctx context.Context, email, pwd string) (User, error)
		CreateOrSetPassword(ctx context.Context, email, pwd string) (User, bool, error)
	}

	service struct {
		repo     Repository
		mailSvc  core.EmailService
		validate *validator.Validate
		tokens   tokenConfig
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, validate *validator.Validate, conf *core.Config) Service {
	return &service{
		repo:     repo,
		mailSvc:  mailSvc,
		validate: validate,
		tokens:   newTokenConfig(conf),
	}
}

func (svc *service) Signup(ctx context.Context, nu NewUser) (AuthResult, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return AuthResult{}, err
	}

	usr, err := svc.create(ctx, nu.Email, nu.Password)
	if err != nil {
		return AuthResult{}, err
	}

	token, err := svc.tokens.makeToken(usr)
	if err != nil {
		return AuthResult{}, errors.Wrap(err, "generating token")
	}

	svc.sendWelcomeMail(usr)
	return AuthResult{User: usr, Token: token}, nil
}

func (svc *service) create(ctx context.Context, email, pwd string) (User, error) {
	count, err := svc.repo.CountUsersByEmail(ctx, email)
	if err != nil {
		return User{}, errors.Wrap(err, "counting users by email")
	}
	if count > 0 {
		return User{}, ErrEmailExists
	}

	now := time.Now().UTC()
	usr := User{
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	// the unique index catches concurrent signups
	usr, err = svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if core.IsConflict(err) {
			return User{}, ErrEmailExists
		}
		return User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (svc *service) sendWelcomeMail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: usr.Email}},
		Subject:      "Welcome",
		TemplateName: welcomeTemplate,
		TemplateData: map[string]interface{}{"Email": usr.Email},
	})
}

func (svc *service) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	if err := creds.Validate(svc.validate); err != nil {
		return AuthResult{}, err
	}

	usr, err := svc.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if core.IsNotFound(err) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := svc.tokens.makeToken(usr)
	if err != nil {
		return AuthResult{}, errors.Wrap(err, "generating token")
	}
	return AuthResult{User: usr, Token: token}, nil
}

func (svc *service) VerifyToken(ctx context.Context, token string) (User, error) {
	claims, err := svc.tokens.parseToken(token)
	if err != nil {
		switch err {
		case core.ErrServerConfiguration:
			return User{}, err
		case errTokenExpired:
			return User{}, ErrTokenExpired
		default:
			return User{}, ErrTokenInvalid
		}
	}

	usr, err := svc.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		// a malformed id cannot belong to any user
		if core.IsNotFound(err) || errors.Cause(err) == core.ErrInvalidID {
			return User{}, ErrTokenUserNotFound
		}
		return User{}, errors.Wrap(err, "finding token user")
	}
	return usr, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) SetPassword(ctx context.Context, email, pwd string) (User, error) {
	data := SetUserPassword{Email: email, Password: pwd}
	if err := data.Validate(svc.validate); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUserByEmail(ctx, data.Email)
	if err != nil {
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.SetPassword(data.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()

	usr, err = svc.repo.UpdateUser(ctx, usr)
	return usr, errors.Wrap(err, "updating user")
}

// CreateOrSetPassword creates the user if unknown, otherwise resets its password.
// The bool result reports whether a user was created.
func (svc *service) CreateOrSetPassword(ctx context.Context, email, pwd string) (User, bool, error) {
	data := SetUserPassword{Email: email, Password: pwd}
	if err := data.Validate(svc.validate); err != nil {
		return User{}, false, err
	}

	if _, err := svc.repo.GetUserByEmail(ctx, data.Email); err != nil {
		if !core.IsNotFound(err) {
			return User{}, false, errors.Wrap(err, "finding user by email")
		}
		usr, err := svc.create(ctx, data.Email, data.Password)
		return usr, err == nil, err
	}

	usr, err := svc.SetPassword(ctx, data.Email, data.Password)
	return usr, false, err
}
