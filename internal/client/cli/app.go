package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/storeit/internal/client/client"
	"github.com/dmitrijs2005/storeit/internal/client/config"
	"github.com/dmitrijs2005/storeit/internal/client/session"
)

type sessionStore interface {
	Load(ctx context.Context) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
	SaveTokens(ctx context.Context, accessToken, refreshToken string) error
	Clear(ctx context.Context) error
}

type App struct {
	config   *config.Config
	client   client.Client
	sessions sessionStore
	db       *sql.DB
	email    string
	loggedIn bool
	reader   *bufio.Reader
	out      io.Writer
}

var (
	initDatabase = session.InitDatabase
	newClient    = func(addr string) (client.Client, error) { return client.NewStoreItClientService(addr) }
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	db, err := initDatabase(ctx, c.SessionFile)
	if err != nil {
		log.Printf("error initializing session database: %s", err.Error())
		return nil, err
	}

	apiClient, err := newClient(c.ServerEndpointAddr)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := newApp(c, apiClient, session.NewStore(db), os.Stdin, os.Stdout)
	a.db = db

	if err := a.restoreSession(ctx); err != nil {
		log.Printf("error restoring session: %s", err.Error())
	}

	return a, nil
}

func newApp(c *config.Config, cl client.Client, s sessionStore, in io.Reader, out io.Writer) *App {
	a := &App{config: c, client: cl, sessions: s, reader: bufio.NewReader(in), out: out}
	cl.OnTokens(a.persistTokens)
	return a
}

// restoreSession picks up the tokens saved by a previous run.
func (a *App) restoreSession(ctx context.Context) error {
	s, err := a.sessions.Load(ctx)
	if err != nil {
		return err
	}
	if !s.LoggedIn() {
		return nil
	}
	a.client.SetTokens(s.AccessToken, s.RefreshToken)
	a.email = s.Email
	a.loggedIn = true
	return nil
}

func (a *App) persistTokens(accessToken, refreshToken string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	if refreshToken == "" {
		err = a.sessions.Clear(ctx)
	} else {
		err = a.sessions.SaveTokens(ctx, accessToken, refreshToken)
	}
	if err != nil {
		log.Printf("error saving session: %s", err.Error())
	}
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

func (a *App) getStatus() string {
	if !a.loggedIn {
		return "guest"
	}
	return a.email
}

// callCtx bounds a single server call by the configured request timeout.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	printlnFn("Welcome to StoreIt CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close() {
	if err := a.client.Close(); err != nil {
		log.Printf("error closing connection: %s", err.Error())
	}
	if a.db != nil {
		a.db.Close()
	}
}
