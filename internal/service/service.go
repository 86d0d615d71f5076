package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/roxdxebec/jenga-biz-sub001/internal/analytics"
	"github.com/roxdxebec/jenga-biz-sub001/internal/config"
	"github.com/roxdxebec/jenga-biz-sub001/internal/export"
	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
	"github.com/roxdxebec/jenga-biz-sub001/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrFetch marks a record-store failure. Callers treat it as a recoverable
// error state and fall back to the neutral baseline in their presentation.
var ErrFetch = errors.New("record fetch failed")

// Store is the slice of the repository the service depends on
type Store interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	FetchDailyRecords(businessID string) ([]models.RawDailyRecord, error)
	FetchLegacyTransactions(businessID string) ([]models.LegacyTransaction, error)
	InsertDailyRecord(businessID, recordDate string, revenue, expenses decimal.Decimal, currency, notes string) (*models.RawDailyRecord, error)
	ListBusinesses() ([]models.Business, error)
}

// Mailer sends sustainability digests to business owners
type Mailer interface {
	SendSustainabilityDigest(to, businessName string, metrics models.HealthMetrics, warnings []models.SustainabilityWarning) error
}

// Service handles business logic
type Service struct {
	repo   Store
	log    *logrus.Logger
	config *config.Config
	mailer Mailer
}

// NewService initializes a new service. mailer may be nil when SMTP is not
// configured; the sustainability sweep then only logs.
func NewService(repo Store, log *logrus.Logger, cfg *config.Config, mailer Mailer) *Service {
	return &Service{repo: repo, log: log, config: cfg, mailer: mailer}
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// CanonicalRecords fetches and normalizes the record set for a business.
// The aggregated source is preferred; the legacy transactions source is
// consulted only when the aggregated one errors or yields no valid records,
// so the same activity recorded in both shapes is never double-counted.
func (s *Service) CanonicalRecords(businessID string) ([]models.FinancialRecord, error) {
	rows, dailyErr := s.repo.FetchDailyRecords(businessID)
	if dailyErr != nil {
		if repository.IsMissingRelation(dailyErr) {
			s.log.Warnf("Aggregated record source missing, falling back to transactions: %v", dailyErr)
		} else {
			s.log.Warnf("Aggregated record fetch failed, falling back to transactions: %v", dailyErr)
		}
	} else {
		res := analytics.NormalizeDaily(rows)
		if res.Skipped > 0 {
			s.log.Warnf("Dropped %d malformed financial records for business %s", res.Skipped, businessID)
		}
		if len(res.Records) > 0 {
			return res.Records, nil
		}
	}

	txs, err := s.repo.FetchLegacyTransactions(businessID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	res := analytics.NormalizeLegacy(txs)
	if res.Skipped > 0 {
		s.log.Warnf("Dropped %d malformed transactions for business %s", res.Skipped, businessID)
	}
	return res.Records, nil
}

// AddRecord validates and stores one aggregated daily record
func (s *Service) AddRecord(businessID, recordDate string, revenue, expenses decimal.Decimal, currency, notes string) (*models.FinancialRecord, error) {
	if _, err := time.Parse("2006-01-02", recordDate); err != nil {
		return nil, fmt.Errorf("invalid record date %q: expected YYYY-MM-DD", recordDate)
	}
	if revenue.IsNegative() || expenses.IsNegative() {
		return nil, fmt.Errorf("revenue and expenses must be non-negative")
	}

	row, err := s.repo.InsertDailyRecord(businessID, recordDate, revenue, expenses, currency, notes)
	if err != nil {
		return nil, err
	}

	res := analytics.NormalizeDaily([]models.RawDailyRecord{*row})
	if len(res.Records) != 1 {
		return nil, fmt.Errorf("stored record failed normalization")
	}
	s.log.Infof("Record added for business %s on %s", businessID, recordDate)
	return &res.Records[0], nil
}

// Metrics recomputes the health indicators for a business
func (s *Service) Metrics(businessID string) (models.HealthMetrics, error) {
	records, err := s.CanonicalRecords(businessID)
	if err != nil {
		return models.HealthMetrics{}, err
	}
	return analytics.CalculateHealthMetrics(records), nil
}

// Cashflow builds the cumulative cashflow series for a business
func (s *Service) Cashflow(businessID string) ([]models.CashflowPoint, error) {
	records, err := s.CanonicalRecords(businessID)
	if err != nil {
		return nil, err
	}
	return analytics.BuildCashflowSeries(records), nil
}

// Aggregates buckets the record set into calendar periods, sorted by bucket
// key for chronological presentation
func (s *Service) Aggregates(businessID string, period analytics.Period) ([]models.PeriodSummary, error) {
	records, err := s.CanonicalRecords(businessID)
	if err != nil {
		return nil, err
	}
	buckets := analytics.AggregateByPeriod(records, period)
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Period < buckets[j].Period })
	return buckets, nil
}

// Warnings evaluates the sustainability rules for a business
func (s *Service) Warnings(businessID string) ([]models.SustainabilityWarning, error) {
	metrics, err := s.Metrics(businessID)
	if err != nil {
		return nil, err
	}
	return analytics.GenerateWarnings(metrics), nil
}

// Forecast projects the balance curve. When burnRate is nil the computed
// burn rate from the business's health metrics is used, which is how the
// dashboard seeds the projection.
func (s *Service) Forecast(businessID string, balance decimal.Decimal, burnRate *decimal.Decimal, monthlyRevenue decimal.Decimal, months int) (models.BalanceForecast, error) {
	rate := decimal.Zero
	if burnRate != nil {
		rate = *burnRate
	} else {
		metrics, err := s.Metrics(businessID)
		if err != nil {
			return models.BalanceForecast{}, err
		}
		rate = metrics.BurnRate
	}
	return analytics.ProjectBalance(balance, rate, monthlyRevenue, months, time.Now()), nil
}

// ExportReport renders the downloadable XML report: one fetch feeds the
// metrics, the period buckets and the warnings together.
func (s *Service) ExportReport(businessID string, period analytics.Period, generatedAt time.Time) ([]byte, error) {
	records, err := s.CanonicalRecords(businessID)
	if err != nil {
		return nil, err
	}
	metrics := analytics.CalculateHealthMetrics(records)
	buckets := analytics.AggregateByPeriod(records, period)
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Period < buckets[j].Period })
	warnings := analytics.GenerateWarnings(metrics)
	return export.FinancialReportXML(businessID, string(period), metrics, buckets, warnings, generatedAt)
}

// RunSustainabilitySweep recomputes metrics for every business and emails
// the owner a digest when any high-severity warning is present. Per-business
// failures are logged and skipped so one broken business cannot stall the
// sweep.
func (s *Service) RunSustainabilitySweep() {
	businesses, err := s.repo.ListBusinesses()
	if err != nil {
		s.log.Errorf("Sustainability sweep aborted: %v", err)
		return
	}

	for _, b := range businesses {
		metrics, err := s.Metrics(b.ID)
		if err != nil {
			s.log.Errorf("Sweep skipped business %s: %v", b.ID, err)
			continue
		}
		warnings := analytics.GenerateWarnings(metrics)
		if !hasHighSeverity(warnings) {
			continue
		}
		s.log.Warnf("Business %s has %d sustainability warnings (risk %s)", b.ID, len(warnings), metrics.RiskLevel)
		if s.mailer == nil {
			continue
		}
		if err := s.mailer.SendSustainabilityDigest(b.OwnerEmail, b.Name, metrics, warnings); err != nil {
			s.log.Errorf("Failed to send digest for business %s: %v", b.ID, err)
		}
	}
	s.log.Infof("Sustainability sweep finished for %d businesses", len(businesses))
}

func hasHighSeverity(warnings []models.SustainabilityWarning) bool {
	for _, w := range warnings {
		if w.Severity == models.SeverityHigh {
			return true
		}
	}
	return false
}
