// Package donorctl реализует консольного клиента реестра доноров.
//
// Клиент хранит указатель сессии в том же хранилище записей, что и сервер,
// поэтому вход сохраняется между запусками (кроме драйвера memory).
// Удаление и очистка доступны только администратору.
package donorctl

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/magabrotheeeer/lifeflow/internal/events"
	"github.com/magabrotheeeer/lifeflow/internal/models"
)

var (
	// ErrUsage неизвестная команда или неверные флаги.
	ErrUsage = errors.New("usage error")
	// ErrNotLoggedIn команда требует входа.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrForbidden команда требует прав администратора.
	ErrForbidden = errors.New("admin rights required")
	// ErrInvalidCredentials неверный email или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Donors операции реестра доноров, нужные клиенту.
type Donors interface {
	Search(ctx context.Context, f models.DonorFilter) ([]models.Donor, error)
	Add(ctx context.Context, in models.DonorInput) (models.Donor, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) (int, error)
	Stats(ctx context.Context, window time.Duration) (models.DonorStats, error)
}

// Session шлюз сессии.
type Session interface {
	Restore(ctx context.Context)
	Login(ctx context.Context, email, proof string) (bool, error)
	Logout(ctx context.Context) error
	CurrentAccount() *models.Account
	IsAuthenticated() bool
	IsAdmin() bool
}

// EventSource поток событий аудита; nil, если брокер не настроен.
type EventSource interface {
	Consume(ctx context.Context, handler func([]byte) error) error
}

// CLI разбирает команды и выполняет их над реестром.
type CLI struct {
	log     *slog.Logger
	donors  Donors
	session Session
	events  EventSource
	out     io.Writer
}

// New создаёт клиента. events может быть nil.
func New(log *slog.Logger, donors Donors, session Session, events EventSource, out io.Writer) *CLI {
	return &CLI{
		log:     log,
		donors:  donors,
		session: session,
		events:  events,
		out:     out,
	}
}

// Usage краткая справка по командам.
const Usage = `usage: donorctl <command> [flags]

commands:
  login     -email E -password P   sign in and remember the session
  logout                           forget the session
  whoami                           show the signed-in account
  list      [-q TEXT] [-blood-type T]
  register  -name N -phone P -blood-type T -address A [-last-donation YYYY-MM-DD]
  stats     [-window-days N]
  remove    -id ID                 admin only
  clear                            admin only, removes every donor
  watch                            print audit events as they arrive
`

// Run восстанавливает сессию и выполняет одну команду.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command", ErrUsage)
	}
	c.session.Restore(ctx)

	cmd, rest := args[0], args[1:]
	c.log.Debug("running command", slog.String("command", cmd), slog.Bool("authenticated", c.session.IsAuthenticated()))
	switch cmd {
	case "login":
		return c.login(ctx, rest)
	case "logout":
		return c.logout(ctx)
	case "whoami":
		return c.whoami()
	case "list":
		return c.list(ctx, rest)
	case "register":
		return c.register(ctx, rest)
	case "stats":
		return c.stats(ctx, rest)
	case "remove":
		return c.remove(ctx, rest)
	case "clear":
		return c.clear(ctx)
	case "watch":
		return c.watch(ctx)
	case "help", "-h", "--help":
		_, err := io.WriteString(c.out, Usage)
		return err
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	return nil
}

func (c *CLI) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("%w: login needs -email and -password", ErrUsage)
	}

	ok, err := c.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	a := c.session.CurrentAccount()
	fmt.Fprintf(c.out, "logged in as %s (%s)\n", a.Email, a.Role)
	return nil
}

func (c *CLI) logout(ctx context.Context) error {
	if err := c.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "logged out")
	return nil
}

func (c *CLI) whoami() error {
	a := c.session.CurrentAccount()
	if a == nil {
		fmt.Fprintln(c.out, "anonymous")
		return nil
	}
	fmt.Fprintf(c.out, "%s <%s> role=%s status=%s\n", a.Name, a.Email, a.Role, a.Status)
	return nil
}

func (c *CLI) list(ctx context.Context, args []string) error {
	fs := newFlagSet("list")
	q := fs.String("q", "", "search text")
	bloodType := fs.String("blood-type", models.BloodTypeAll, "blood type filter")
	if err := parse(fs, args); err != nil {
		return err
	}

	donors, err := c.donors.Search(ctx, models.DonorFilter{Query: *q, BloodType: *bloodType})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tBLOOD\tADDRESS\tLAST DONATION")
	for _, d := range donors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Phone, d.BloodType, d.Address, lastDonation(d))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%d donor(s)\n", len(donors))
	return nil
}

func lastDonation(d models.Donor) string {
	if d.LastDonationDate == nil {
		return "never"
	}
	return d.LastDonationDate.Format(time.DateOnly)
}

func (c *CLI) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	in := models.DonorInput{}
	fs.StringVar(&in.Name, "name", "", "full name")
	fs.StringVar(&in.Phone, "phone", "", "phone number")
	fs.StringVar(&in.BloodType, "blood-type", "", "blood type, e.g. O+")
	fs.StringVar(&in.Address, "address", "", "address")
	last := fs.String("last-donation", "", "last donation date YYYY-MM-DD")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *last != "" {
		t, err := time.Parse(time.DateOnly, *last)
		if err != nil {
			return fmt.Errorf("%w: -last-donation must be YYYY-MM-DD", ErrUsage)
		}
		in.LastDonationDate = &t
	}

	d, err := c.donors.Add(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "registered %s (%s)\n", d.Name, d.ID)
	return nil
}

func (c *CLI) stats(ctx context.Context, args []string) error {
	fs := newFlagSet("stats")
	days := fs.Int("window-days", 0, "recent window in days, 0 for default")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *days < 0 || *days > models.MaxRecentWindowDays {
		return fmt.Errorf("%w: -window-days must be between 0 and %d", ErrUsage, models.MaxRecentWindowDays)
	}

	s, err := c.donors.Stats(ctx, time.Duration(*days)*24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "total: %d\n", s.Total)
	for _, bt := range s.PerBloodType {
		fmt.Fprintf(c.out, "  %-3s %4d  %5.1f%%\n", bt.BloodType, bt.Count, bt.Percentage)
	}
	fmt.Fprintf(c.out, "registered in last %d days: %d\n", s.RecentDays, s.RecentCount)
	return nil
}

func (c *CLI) requireAdmin() error {
	if !c.session.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	if !c.session.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func (c *CLI) remove(ctx context.Context, args []string) error {
	fs := newFlagSet("remove")
	id := fs.String("id", "", "donor id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("%w: remove needs -id", ErrUsage)
	}
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if err := c.donors.Remove(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "removed %s\n", *id)
	return nil
}

func (c *CLI) clear(ctx context.Context) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	n, err := c.donors.Clear(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "removed %d donor(s)\n", n)
	return nil
}

func (c *CLI) watch(ctx context.Context) error {
	if c.events == nil {
		return errors.New("rabbitmq is not enabled in config")
	}
	return c.events.Consume(ctx, func(body []byte) error {
		var e events.Event
		if err := json.Unmarshal(body, &e); err != nil {
			return fmt.Errorf("decode event: %w", err)
		}
		fmt.Fprintf(c.out, "%s  %-16s %s\n", e.OccurredAt.Format(time.RFC3339), e.Type, e.EntityID)
		return nil
	})
}
