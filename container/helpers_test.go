package container_test

import (
	"time"
)

// ── shared fixtures ───────────────────────────────────────────────────────────

// Mailer is the workhorse service of these tests: one interface, several
// implementations for keyed and collection scenarios.
type Mailer interface {
	Deliver(msg string) string
}

type emailMailer struct{ sent int }

func (m *emailMailer) Deliver(msg string) string {
	m.sent++
	return "email:" + msg
}

type smsMailer struct{ sent int }

func (m *smsMailer) Deliver(msg string) string {
	m.sent++
	return "sms:" + msg
}

type pushMailer struct{ sent int }

func (m *pushMailer) Deliver(msg string) string {
	m.sent++
	return "push:" + msg
}

type Clock interface {
	Now() time.Time
}

type frozenClock struct{}

func (frozenClock) Now() time.Time { return time.Unix(0, 0) }

// reportService has one constructor parameter, wired by type.
type reportService struct {
	Mailer Mailer
}

func (s *reportService) Run() string { return s.Mailer.Deliver("report") }

// database exposes a plain-data constructor parameter, exercised by the
// override tests.
type database struct {
	ConnectionString string
}

// BaseJob carries an inherited injectable property.
type BaseJob struct {
	Clock Clock `inject:""`
}

type cleanupJob struct {
	BaseJob
	Mailer Mailer `inject:""`
}

// chicken/egg form a two-step dependency cycle through implicit
// self-registrations.
type chicken struct {
	Egg *egg
}

type egg struct {
	Chicken *chicken
}
