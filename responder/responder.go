package responder

import (
	"log/slog"
	"net/http"
)

const jsonContentType = "application/json"

// Classifier maps an error to an HTTP status. ok=false leaves the error to
// the 500 fallback of HandleErrors.
type Classifier func(err error) (status int, ok bool)

// Option configures a Responder.
type Option func(*Responder)

// StatusRule controls how errors for one HTTP status are rendered and logged.
// Zero fields fall back to the status text and slog.LevelError.
type StatusRule struct {
	Prefix string
	Level  slog.Level
	LogMsg string
}

// Responder renders JSON bodies and error envelopes for HTTP handlers. Every
// error envelope carries a trace id that is also attached to its log record.
type Responder struct {
	log        *slog.Logger
	rules      map[int]StatusRule
	classifier Classifier
}

// New returns a Responder using slog.Default and the service's status rules.
func New(opts ...Option) *Responder {
	r := &Responder{
		log:   slog.Default(),
		rules: defaultRules(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// WithLogger sets the logger used for error records. nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithClassifier installs the classifier consulted by HandleErrors.
func WithClassifier(classifier Classifier) Option {
	return func(r *Responder) {
		r.classifier = classifier
	}
}

// WithStatusRule overrides the rule for status.
func WithStatusRule(status int, rule StatusRule) Option {
	return func(r *Responder) {
		r.rules[status] = rule
	}
}

// Logger returns the logger the responder writes to.
func (r *Responder) Logger() *slog.Logger {
	if r == nil || r.log == nil {
		return slog.Default()
	}
	return r.log
}

// rule resolves the rule for status, filling unset fields.
func (r *Responder) rule(status int) StatusRule {
	rule := r.rules[status]
	if rule.Level == 0 {
		// The zero Level is slog.LevelInfo; an unset level reads as error.
		rule.Level = slog.LevelError
	}
	if rule.Prefix == "" {
		rule.Prefix = http.StatusText(status)
	}
	if rule.Prefix == "" {
		rule.Prefix = "Error"
	}
	if rule.LogMsg == "" {
		rule.LogMsg = rule.Prefix
	}
	return rule
}

func defaultRules() map[int]StatusRule {
	return map[int]StatusRule{
		http.StatusBadRequest:            {Prefix: "Invalid JSON", Level: slog.LevelWarn, LogMsg: "rejected request body"},
		http.StatusNotFound:              {Prefix: "Not found", Level: slog.LevelWarn, LogMsg: "route not found"},
		http.StatusMethodNotAllowed:      {Prefix: "Method not allowed", Level: slog.LevelWarn, LogMsg: "method not allowed"},
		http.StatusRequestEntityTooLarge: {Prefix: "Invalid JSON", Level: slog.LevelWarn, LogMsg: "request body too large"},
		http.StatusInternalServerError:   {Prefix: "Processing error", Level: slog.LevelError, LogMsg: "processing failed"},
		http.StatusServiceUnavailable:    {Prefix: "Service unavailable", Level: slog.LevelWarn, LogMsg: "probe failed"},
	}
}
