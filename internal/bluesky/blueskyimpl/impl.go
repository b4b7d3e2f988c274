package blueskyimpl

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/orgball2608/bluesky-likes-crawler/internal/bluesky"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/config"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/logger"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/retry"
	"go.uber.org/fx"
)

const defaultHandleSuffix = ".bsky.social"

var ErrNoHandle = errors.New("BLUESKY_HANDLE is not set")

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
	Store  bluesky.SessionStore
}

type BlueskyImpl struct {
	baseURL  string
	handle   string
	password string
	http     *http.Client
	store    bluesky.SessionStore
	retry    retry.Config
	logger   logger.Logger

	mu      sync.Mutex
	session *bluesky.Session
}

func New(opts Opts) (*BlueskyImpl, error) {
	if opts.Config.Bluesky.Handle == "" {
		return nil, ErrNoHandle
	}

	return &BlueskyImpl{
		baseURL:  strings.TrimRight(opts.Config.Bluesky.BaseURL, "/"),
		handle:   FullHandle(opts.Config.Bluesky.Handle),
		password: opts.Config.Bluesky.Password,
		http:     &http.Client{Timeout: opts.Config.Bluesky.Timeout},
		store:    opts.Store,
		retry:    retry.DefaultConfig(),
		logger:   opts.Logger.WithComponent("Bluesky"),
	}, nil
}

var _ bluesky.Client = (*BlueskyImpl)(nil)

// FullHandle appends the default PDS domain to a bare handle name.
func FullHandle(handle string) string {
	if handle == "" || strings.Contains(handle, ".") {
		return handle
	}
	return handle + defaultHandleSuffix
}

func (b *BlueskyImpl) Login(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.login(ctx)
}

// login must be called with mu held.
func (b *BlueskyImpl) login(ctx context.Context) error {
	stored, err := b.store.Load()
	if err != nil && !errors.Is(err, bluesky.ErrNoSession) {
		b.logger.Warn("Failed to load stored session", "error", err)
	}

	var session *bluesky.Session
	if stored != "" {
		var previous bluesky.Session
		if err := json.Unmarshal([]byte(stored), &previous); err != nil {
			b.logger.Warn("Stored session is unreadable, creating a new one", "error", err)
		} else if refreshed, err := b.refreshSession(ctx, previous.RefreshJwt); err != nil {
			b.logger.Info("Stored session could not be refreshed, creating a new one", "error", err)
		} else {
			session = refreshed
		}
	}

	if session == nil {
		created, err := b.createSession(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to log in to bluesky")
		}
		session = created
	}
	b.session = session

	encoded, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "failed to encode session")
	}
	if string(encoded) != stored {
		if err := b.store.Save(string(encoded)); err != nil {
			return errors.Wrap(err, "failed to save session")
		}
	}

	b.logger.Info("Logged in to bluesky", "handle", session.Handle, "did", session.Did)
	return nil
}

func (b *BlueskyImpl) createSession(ctx context.Context) (*bluesky.Session, error) {
	var session bluesky.Session
	err := b.xrpc(ctx, xrpcRequest{
		method: http.MethodPost,
		nsid:   "com.atproto.server.createSession",
		body: map[string]string{
			"identifier": b.handle,
			"password":   b.password,
		},
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (b *BlueskyImpl) refreshSession(ctx context.Context, refreshJwt string) (*bluesky.Session, error) {
	if refreshJwt == "" {
		return nil, bluesky.ErrNoSession
	}

	var session bluesky.Session
	err := b.xrpc(ctx, xrpcRequest{
		method: http.MethodPost,
		nsid:   "com.atproto.server.refreshSession",
		token:  refreshJwt,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
