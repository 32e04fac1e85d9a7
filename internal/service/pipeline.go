// Package service orchestrates the statement analysis pipeline from raw
// PDF bytes through to forecasts and budget plans.
package service

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/spendify/spendify/internal/bank"
	"github.com/spendify/spendify/internal/budget"
	"github.com/spendify/spendify/internal/classify"
	"github.com/spendify/spendify/internal/extraction"
	"github.com/spendify/spendify/internal/forecast"
	"github.com/spendify/spendify/internal/statement"
)

// Analyzer runs statements through extraction, normalization, and
// classification, and serves forecasts over the resulting ledgers.
type Analyzer struct {
	logger       *log.Logger
	classifier   *classify.Classifier
	normalizeOpt extraction.NormalizeOptions
	forecastOpt  forecast.Options
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClassifier overrides the default category rules.
func WithClassifier(c *classify.Classifier) Option {
	return func(a *Analyzer) { a.classifier = c }
}

// WithNormalizeOptions overrides normalization settings.
func WithNormalizeOptions(opts extraction.NormalizeOptions) Option {
	return func(a *Analyzer) { a.normalizeOpt = opts }
}

// WithForecastOptions overrides forecast settings.
func WithForecastOptions(opts forecast.Options) Option {
	return func(a *Analyzer) { a.forecastOpt = opts }
}

// NewAnalyzer creates an analyzer with default rules and options.
func NewAnalyzer(logger *log.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		logger:      logger,
		classifier:  classify.New(nil),
		forecastOpt: forecast.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the full pipeline over raw PDF bytes: decrypt, extract the
// transaction table, resolve the bank format, normalize, and classify.
//
// bankCode selects a registered format, or bank.CodeAuto to detect one from
// the table header. An explicit code that does not match the extracted
// header fails rather than falling back to detection.
func (a *Analyzer) Analyze(data []byte, password, bankCode string) (*statement.Ledger, error) {
	doc, err := extraction.Open(data, password)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("opened document", "pages", doc.PageCount())

	raw, err := doc.ExtractTable()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("extracted table", "rows", len(raw.Rows))

	var profile bank.Profile
	if bankCode == "" || bankCode == bank.CodeAuto {
		profile, err = bank.Detect(raw.Header())
	} else {
		profile, err = bank.Resolve(bankCode)
	}
	if err != nil {
		return nil, err
	}
	a.logger.Info("resolved bank format", "bank", profile.Code)

	ledger, err := extraction.Normalize(raw, profile, a.normalizeOpt)
	if err != nil {
		return nil, err
	}

	ledger = a.classifier.Classify(ledger)
	a.logger.Info("analysis complete",
		"bank", profile.Code,
		"transactions", len(ledger.Transactions))
	return ledger, nil
}

// Summarize aggregates ledger totals, category counts, and monthly flows.
func (a *Analyzer) Summarize(l *statement.Ledger) statement.Summary {
	return statement.Summarize(l)
}

// Forecast projects the ledger balance horizonDays ahead.
func (a *Analyzer) Forecast(l *statement.Ledger, horizonDays int) (*forecast.Result, error) {
	return forecast.Forecast(l, horizonDays, a.forecastOpt)
}

// Budget derives a spending plan from a forecast result.
func (a *Analyzer) Budget(res *forecast.Result) (*budget.Plan, error) {
	return budget.Derive(res)
}

// SubmitForecast queues an async forecast-and-budget job against the ledger
// and returns it immediately in the pending state.
func (a *Analyzer) SubmitForecast(js *JobStore, l *statement.Ledger, horizonDays int) *ForecastJob {
	created := js.Create(horizonDays)
	pending := *created
	ledger := l.Clone()

	go func() {
		job := created
		job.Status = JobRunning
		if err := js.Update(job); err != nil {
			a.logger.Error("updating job", "id", job.ID, "error", err)
			return
		}

		res, err := forecast.Forecast(ledger, horizonDays, a.forecastOpt)
		if err != nil {
			job.Status = JobFailed
			job.Error = err.Error()
			job.CompletedAt = time.Now()
			if uerr := js.Update(job); uerr != nil {
				a.logger.Error("updating job", "id", job.ID, "error", uerr)
			}
			a.logger.Warn("forecast job failed", "id", job.ID, "error", err)
			return
		}

		plan, err := budget.Derive(res)
		if err != nil {
			job.Status = JobFailed
			job.Error = err.Error()
			job.CompletedAt = time.Now()
			if uerr := js.Update(job); uerr != nil {
				a.logger.Error("updating job", "id", job.ID, "error", uerr)
			}
			return
		}

		job.Status = JobCompleted
		job.Result = res
		job.Plan = plan
		job.CompletedAt = time.Now()
		if err := js.Update(job); err != nil {
			a.logger.Error("updating job", "id", job.ID, "error", err)
		}
		a.logger.Info("forecast job completed", "id", job.ID, "horizon", horizonDays)
	}()

	return &pending
}
