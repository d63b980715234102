package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// AuthOutcome tags the result of a credential verification
type AuthOutcome int

const (
	// OutcomeSuccess means credentials and account state checked out
	OutcomeSuccess AuthOutcome = iota
	// OutcomeDisabled means the account exists but was never activated
	OutcomeDisabled
	// OutcomeLocked means the account was locked by an external process
	OutcomeLocked
	// OutcomeBadCredentials covers unknown usernames and wrong passwords
	OutcomeBadCredentials
)

func (o AuthOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeDisabled:
		return "disabled"
	case OutcomeLocked:
		return "locked"
	case OutcomeBadCredentials:
		return "bad_credentials"
	default:
		return "unknown"
	}
}

// User-facing message catalog. The locked and disabled texts nearly
// coincide on purpose: the upstream product shipped both strings and
// clients match on them, so they stay verbatim even though the internal
// outcomes are distinct.
const (
	MsgEmailTaken         = "Email Already Exists"
	MsgUsernameTaken      = "UserName Already Exists"
	MsgCheckEmail         = "Please Check your Email To Activate your Account"
	MsgAccountDisabled    = "Your Account Has Not been Activated"
	MsgAccountLocked      = "Your Account Has Not Yet Been Activated"
	MsgInvalidCredentials = "Invalid Credentials"
	MsgLoginOK            = "Successfully Logged In"
	MsgTokenInvalid       = "Your Activation Token No longer works"
	MsgAlreadyActivated   = "Your Account was already activated"
	MsgActivated          = "Your Account Has Been Activated Successfully"
)

// RegistrationRequest carries the signup payload. City and country are
// opaque passthrough data persisted on the record.
type RegistrationRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	City     string `json:"city" form:"city"`
	Country  string `json:"country" form:"country"`
}

// Validate will run validation rules
func (r RegistrationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// auditKind keys the outcome -> event policy table
type auditKind int

const (
	auditRegisterEmailTaken auditKind = iota
	auditRegisterUsernameTaken
	auditRegistered
	auditActivationSent
	auditLoginDisabled
	auditLoginLocked
	auditLoginBadCredentials
	auditLoginOK
	auditTokenRejected
	auditActivateRepeat
	auditActivated
)

type auditSpec struct {
	severity Severity
	format   string
}

// auditPolicy maps every operation outcome to its event. Emission happens
// in one place after the outcome is computed, never inline per branch.
var auditPolicy = map[auditKind]auditSpec{
	auditRegisterEmailTaken:    {SeverityWarn, "Someone tried Registering With an Email That Already exists"},
	auditRegisterUsernameTaken: {SeverityWarn, "Someone tried Registering With a UserName That Already exists"},
	auditRegistered:            {SeverityInfo, "%s Has Successfully Been Registered"},
	auditActivationSent:        {SeverityInfo, "%s Has Received An Email"},
	auditLoginDisabled:         {SeverityWarn, "%s Tried To Login with a Disabled Account"},
	auditLoginLocked:           {SeverityWarn, "%s Tried To Login with a Locked Account"},
	auditLoginBadCredentials:   {SeverityWarn, "%s Submitted Invalid Login Credentials"},
	auditLoginOK:               {SeverityInfo, "%s Successfully Logged In"},
	auditTokenRejected:         {SeverityWarn, "Activation Token Is Expired"},
	auditActivateRepeat:        {SeverityWarn, "%s Tried to activate Account again"},
	auditActivated:             {SeverityInfo, "%s has activated their account"},
}

var loginFailureMessages = map[AuthOutcome]string{
	OutcomeDisabled:       MsgAccountDisabled,
	OutcomeLocked:         MsgAccountLocked,
	OutcomeBadCredentials: MsgInvalidCredentials,
}

var loginFailureAudit = map[AuthOutcome]auditKind{
	OutcomeDisabled:       auditLoginDisabled,
	OutcomeLocked:         auditLoginLocked,
	OutcomeBadCredentials: auditLoginBadCredentials,
}

// Auther orchestrates the account lifecycle. It is stateless between
// invocations; every operation is request scoped and concurrency safety is
// delegated to the AccountStore.
type Auther struct {
	store     AccountStore
	notifier  NotificationGateway
	auditSink AuditSink
	hasher    PasswordAuthenticator
	tokens    TokenService
	cfg       Config
	logger    Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuther returns a new Auther wired with defaults for everything but the
// store: bcrypt hashing, an HS256 token service derived from cfg, a no-op
// notifier, and a no-op audit sink.
func NewAuther(store AccountStore, cfg Config) *Auther {
	cfg = cfg.withDefaults()

	return &Auther{
		store:     store,
		notifier:  noopNotifier{},
		auditSink: noopAuditSink{},
		hasher:    NewPasswordAuthenticator(),
		tokens:    NewTokenService(cfg.SigningKey, cfg.Issuer, cfg.Audience, defLogger{}),
		cfg:       cfg,
		logger:    defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithAuditSink configures the AuditSink for lifecycle events.
func (s *Auther) WithAuditSink(sink AuditSink) *Auther {
	s.auditSink = normalizeAuditSink(sink)
	return s
}

// WithNotifier configures the NotificationGateway used on registration.
func (s *Auther) WithNotifier(gateway NotificationGateway) *Auther {
	s.notifier = normalizeNotifier(gateway)
	return s
}

// WithPasswordAuthenticator overrides the credential hasher.
func (s *Auther) WithPasswordAuthenticator(hasher PasswordAuthenticator) *Auther {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

// WithTokenService overrides the token service.
func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// TokenService returns the TokenService instance used by this Auther
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Register creates a disabled account and dispatches an activation token.
// Uniqueness conflicts come back as Result values; store failures propagate
// as errors for the transport to translate.
func (s *Auther) Register(ctx context.Context, req RegistrationRequest) (Result, error) {
	taken, err := s.store.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return Result{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email uniqueness")
	}
	if taken {
		s.emit(ctx, auditRegisterEmailTaken)
		return Result{Error: true, Message: MsgEmailTaken}, nil
	}

	taken, err = s.store.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return Result{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username uniqueness")
	}
	if taken {
		s.emit(ctx, auditRegisterUsernameTaken)
		return Result{Error: true, Message: MsgUsernameTaken}, nil
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return Result{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		City:         req.City,
		Country:      req.Country,
		Enabled:      false,
	}
	if id, err := hashid.NewUUID(req.Email); err == nil {
		user.ID = id
	}

	if err := s.store.Save(ctx, user); err != nil {
		// a concurrent registration can slip past the exists checks and hit
		// the store's unique constraint instead
		switch {
		case errors.Is(err, ErrEmailTaken):
			s.emit(ctx, auditRegisterEmailTaken)
			return Result{Error: true, Message: MsgEmailTaken}, nil
		case errors.Is(err, ErrUsernameTaken):
			s.emit(ctx, auditRegisterUsernameTaken)
			return Result{Error: true, Message: MsgUsernameTaken}, nil
		}
		return Result{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist user")
	}
	s.emit(ctx, auditRegistered, req.Username)

	token, err := s.tokens.Issue(req.Username, PurposeActivation, s.cfg.ActivationTTL)
	if err != nil {
		return Result{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint activation token")
	}

	if err := s.notifier.SendActivation(ctx, token, req); err != nil {
		s.logger.Warn("activation notification failed for %s: %v", req.Username, err)
	}
	s.emit(ctx, auditActivationSent, req.Username)

	return Result{Error: false, Message: MsgCheckEmail}, nil
}

// Verify checks credentials and account state, returning a tagged outcome
// instead of raising. The user record is returned for Success, Disabled,
// and Locked so callers do not need a second lookup.
func (s *Auther) Verify(ctx context.Context, username, password string) (AuthOutcome, *User, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return OutcomeBadCredentials, nil, nil
		}
		return OutcomeBadCredentials, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	// account-state gates run before the password check, matching the
	// upstream authentication manager's pre-auth ordering
	if user.AccountLocked {
		return OutcomeLocked, user, nil
	}
	if !user.Enabled {
		return OutcomeDisabled, user, nil
	}

	if err := s.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return OutcomeBadCredentials, nil, nil
		}
		return OutcomeBadCredentials, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to compare password hash")
	}

	return OutcomeSuccess, user, nil
}

// Login verifies credentials and mints a session token. No token is ever
// issued for a failed check.
func (s *Auther) Login(ctx context.Context, username, password string) (LoginResult, error) {
	outcome, user, err := s.Verify(ctx, username, password)
	if err != nil {
		return LoginResult{}, err
	}

	if outcome != OutcomeSuccess {
		s.emit(ctx, loginFailureAudit[outcome], username)
		return LoginResult{
			Result: Result{Error: true, Message: loginFailureMessages[outcome]},
		}, nil
	}

	token, err := s.tokens.Issue(user.Username, PurposeSession, s.cfg.SessionTTL)
	if err != nil {
		return LoginResult{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint session token")
	}
	s.emit(ctx, auditLoginOK, username)

	bearer := "Bearer " + token
	return LoginResult{
		Result: Result{Error: false, Message: MsgLoginOK},
		Token:  &bearer,
	}, nil
}

// Activate exchanges a valid activation token for Enabled=true. Repeats are
// rejected rather than silently absorbed, so the account state is
// idempotent but the response is not.
func (s *Auther) Activate(ctx context.Context, token string) (Result, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil || !claims.Is(PurposeActivation) {
		s.emit(ctx, auditTokenRejected)
		return Result{Error: true, Message: MsgTokenInvalid}, nil
	}

	user, err := s.store.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if goerrors.IsNotFound(err) {
			// valid signature but the subject no longer resolves; treat the
			// token as dead rather than leaking record state
			s.emit(ctx, auditTokenRejected)
			return Result{Error: true, Message: MsgTokenInvalid}, nil
		}
		return Result{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during activation")
	}

	if !user.CanActivate() {
		s.emit(ctx, auditActivateRepeat, user.Username)
		return Result{Error: true, Message: MsgAlreadyActivated}, nil
	}

	user.Enabled = true
	user.AccountLocked = false
	if err := s.store.Save(ctx, user); err != nil {
		return Result{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist activation")
	}
	s.emit(ctx, auditActivated, user.Username)

	return Result{Error: false, Message: MsgActivated}, nil
}

// emit publishes the audit event for kind. Fire and forget: sink errors are
// logged and never reach the operation result.
func (s *Auther) emit(ctx context.Context, kind auditKind, args ...any) {
	spec, ok := auditPolicy[kind]
	if !ok {
		return
	}

	message := spec.format
	if len(args) > 0 {
		message = fmt.Sprintf(spec.format, args...)
	}

	event := AuditEvent{
		Severity:   spec.severity,
		Message:    message,
		Origin:     s.cfg.Origin,
		OccurredAt: time.Now(),
	}

	if err := s.auditSink.Publish(ctx, event); err != nil {
		s.logger.Warn("audit sink publish error: %v", err)
	}
}
