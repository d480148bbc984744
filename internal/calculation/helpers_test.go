package calculation

import (
	"fmt"
	"sync"

	"github.com/rpgo/glidepath/internal/domain"
	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ym(s string) dateutil.YearMonth { return dateutil.MustParseYearMonth(s) }

func newState(amount, startAlloc, endAlloc, yield, start, end string) *domain.PortfolioState {
	s, err := domain.NewPortfolioState(domain.PortfolioParams{
		StartAmount:             d(amount),
		StartAllocation:         d(startAlloc),
		EndAllocation:           d(endAlloc),
		FixedYieldAnnualPercent: d(yield),
		StartMonth:              ym(start),
		EndMonth:                ym(end),
	})
	if err != nil {
		panic(err)
	}
	return s
}

// recordingLogger keeps every message by level
type recordingLogger struct {
	mu       sync.Mutex
	messages map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{messages: map[string][]string{}}
}

func (l *recordingLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages[level] = append(l.messages[level], fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debugf(format string, args ...any) { l.add("debug", format, args...) }
func (l *recordingLogger) Infof(format string, args ...any)  { l.add("info", format, args...) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.add("warn", format, args...) }
func (l *recordingLogger) Errorf(format string, args ...any) { l.add("error", format, args...) }
