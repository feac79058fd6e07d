package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"hireflow/internal/cache"
	"hireflow/internal/formprops"
	"hireflow/internal/model"
	"hireflow/internal/repository"
	"hireflow/internal/validation"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrAccountExists   = errors.New("an account with this email or phone already exists")
	ErrAccountNotFound = errors.New("no account found for this email or phone")
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrCodeExpired     = errors.New("verification code expired, request a new one")
	ErrTooManyAttempts = errors.New("too many attempts, request a new code")
)

// AuthConfig holds token and login-code settings
type AuthConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration // recruiter session
	RememberTTL    time.Duration // recruiter session with keepSignedIn
	ApplicantTTL   time.Duration
	OTPTTL         time.Duration
	OTPMaxAttempts int
}

// Notifier delivers login codes
type Notifier interface {
	SendCode(ctx context.Context, destination, code string) error
}

// LogNotifier stands in for SMS and email delivery by writing to the server
// log. The code itself is only logged when ShowCodes is set.
type LogNotifier struct {
	ShowCodes bool
}

func (n LogNotifier) SendCode(ctx context.Context, destination, code string) error {
	if !n.ShowCodes {
		log.Printf("login code issued for %s", mask(destination))
		return nil
	}
	log.Printf("login code for %s: %s", destination, code)
	return nil
}

// AuthService handles recruiter login and applicant call tokens
type AuthService struct {
	cfg        AuthConfig
	jwtSecret  []byte
	recruiters repository.RecruiterRepo
	otps       cache.OTPCache
	notifier   Notifier
	catalog    *formprops.Catalog
}

// NewAuthService creates a new auth service
func NewAuthService(
	cfg AuthConfig,
	recruiters repository.RecruiterRepo,
	otps cache.OTPCache,
	notifier Notifier,
	catalog *formprops.Catalog,
) *AuthService {
	if cfg.OTPMaxAttempts <= 0 {
		cfg.OTPMaxAttempts = 5
	}
	return &AuthService{
		cfg:        cfg,
		jwtSecret:  []byte(cfg.JWTSecret),
		recruiters: recruiters,
		otps:       otps,
		notifier:   notifier,
		catalog:    catalog,
	}
}

// Signup creates a recruiter account with its company profile
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.Recruiter, error) {
	req.Email = validation.NormalizeEmail(req.Email)
	errs := validation.Collect(req)
	if req.Industry != "" && !s.catalog.Allows(formprops.KeyIndustry, req.Industry) {
		errs.Add("industry", "is not a known industry")
	}
	if req.CompanySize != "" && !s.catalog.Allows(formprops.KeyCompanySize, req.CompanySize) {
		errs.Add("companySize", "is not a known company size")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	phone := validation.NormalizePhone(req.Phone)

	if existing, err := s.recruiters.GetByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("failed to look up recruiter: %w", err)
	} else if existing != nil {
		return nil, ErrAccountExists
	}
	if existing, err := s.recruiters.GetByPhone(ctx, phone); err != nil {
		return nil, fmt.Errorf("failed to look up recruiter: %w", err)
	} else if existing != nil {
		return nil, ErrAccountExists
	}

	rec := &model.Recruiter{
		ID:          uuid.New().String(),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       req.Email,
		Phone:       phone,
		CompanyName: strings.TrimSpace(req.CompanyName),
		Website:     req.Website,
		Industry:    req.Industry,
		CompanySize: req.CompanySize,
		CreatedAt:   time.Now(),
	}
	if err := s.recruiters.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create recruiter: %w", err)
	}
	log.Printf("recruiter %s signed up (%s)", rec.ID, rec.CompanyName)
	return rec, nil
}

// subject returns the OTP key for an email or phone and the recruiter lookup
func (s *AuthService) subject(ctx context.Context, emailOrPhone string) (string, *model.Recruiter, error) {
	var (
		key string
		rec *model.Recruiter
		err error
	)
	if validation.IsEmail(emailOrPhone) {
		email := validation.NormalizeEmail(emailOrPhone)
		key = "email:" + email
		rec, err = s.recruiters.GetByEmail(ctx, email)
	} else {
		phone := validation.NormalizePhone(emailOrPhone)
		key = "phone:" + phone
		rec, err = s.recruiters.GetByPhone(ctx, phone)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up recruiter: %w", err)
	}
	return key, rec, nil
}

// Login sends a one-time code to the recruiter's email or phone
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	key, rec, err := s.subject(ctx, req.EmailOrPhone)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrAccountNotFound
	}

	code, err := generateDigits(6)
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}
	if err := s.otps.Set(ctx, key, cache.OTP{Code: code, RecruiterID: rec.ID}, s.cfg.OTPTTL); err != nil {
		return nil, fmt.Errorf("failed to store code: %w", err)
	}

	dest := rec.Email
	if strings.HasPrefix(key, "phone:") {
		dest = rec.Phone
	}
	if err := s.notifier.SendCode(ctx, dest, code); err != nil {
		return nil, fmt.Errorf("failed to send code: %w", err)
	}

	return &model.LoginResponse{
		Message:     "verification code sent",
		Destination: mask(dest),
		ExpiresIn:   int(s.cfg.OTPTTL.Seconds()),
	}, nil
}

// Verify checks a one-time code and issues a recruiter token
func (s *AuthService) Verify(ctx context.Context, req model.VerifyRequest) (*model.TokenResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	key, _, err := s.subject(ctx, req.EmailOrPhone)
	if err != nil {
		return nil, err
	}

	otp, err := s.otps.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read code: %w", err)
	}
	if otp == nil {
		return nil, ErrCodeExpired
	}
	if otp.Attempts >= s.cfg.OTPMaxAttempts {
		_ = s.otps.Delete(ctx, key)
		return nil, ErrTooManyAttempts
	}
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(req.Code)) != 1 {
		n, err := s.otps.IncrAttempts(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to record attempt: %w", err)
		}
		if n >= s.cfg.OTPMaxAttempts {
			_ = s.otps.Delete(ctx, key)
			return nil, ErrTooManyAttempts
		}
		return nil, ErrInvalidCode
	}
	if err := s.otps.Delete(ctx, key); err != nil {
		log.Printf("failed to delete used code for %s: %v", otp.RecruiterID, err)
	}

	ttl := s.cfg.TokenTTL
	if req.KeepSignedIn {
		ttl = s.cfg.RememberTTL
	}
	return s.IssueRecruiterToken(otp.RecruiterID, ttl)
}

// IssueRecruiterToken signs a dashboard token
func (s *AuthService) IssueRecruiterToken(recruiterID string, ttl time.Duration) (*model.TokenResponse, error) {
	now := time.Now()
	expires := now.Add(ttl)
	claims := &model.RecruiterClaims{
		RecruiterID: recruiterID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   recruiterID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		Token:       tokenString,
		RecruiterID: recruiterID,
		ExpiresAt:   expires,
	}, nil
}

// ValidateRecruiterToken validates a recruiter JWT and returns claims
func (s *AuthService) ValidateRecruiterToken(tokenString string) (*model.RecruiterClaims, error) {
	claims := &model.RecruiterClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.RecruiterID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueApplicantToken creates a token scoped to one call session
func (s *AuthService) IssueApplicantToken(interviewID, applicantID, sessionID string) (string, error) {
	claims := &model.ApplicantClaims{
		InterviewID: interviewID,
		ApplicantID: applicantID,
		SessionID:   sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   applicantID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.ApplicantTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateApplicantToken validates an applicant JWT and returns claims
func (s *AuthService) ValidateApplicantToken(tokenString string) (*model.ApplicantClaims, error) {
	claims := &model.ApplicantClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.SessionID == "" || claims.InterviewID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// generateDigits returns n random decimal digits
func generateDigits(n int) (string, error) {
	return randomString(rand.Reader, digits, n)
}

// mask hides most of an email local part or phone number
func mask(dest string) string {
	if at := strings.IndexByte(dest, '@'); at > 0 {
		return dest[:1] + strings.Repeat("*", at-1) + dest[at:]
	}
	if len(dest) > 4 {
		return strings.Repeat("*", len(dest)-4) + dest[len(dest)-4:]
	}
	return dest
}
