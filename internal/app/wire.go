package app

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/metrics"
	"sealchat/internal/relay"
	"sealchat/internal/services/chat"
	"sealchat/internal/services/codec"
	"sealchat/internal/store"
)

// Wire bundles the stores, services and clients for the CLI.
type Wire struct {
	Config  Config
	Log     zerolog.Logger
	Keys    *crypto.Keyring
	Codec   *codec.Service
	Store   domain.EndpointStore
	Dialer  *relay.Dialer
	Metrics *metrics.Metrics
	Chat    *chat.Controller
}

// NewWire constructs the dependency graph from cfg. The keyring is generated
// here and lives as long as the Wire.
func NewWire(cfg Config, log zerolog.Logger) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := OpenStore(cfg, log)
	if err != nil {
		return nil, err
	}

	keys, err := crypto.NewKeyring()
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("generate session secret: %w", err)
	}

	dialer := relay.NewDialer(relay.Options{Path: cfg.SocketPath}, log)
	cdc := codec.New()
	m := metrics.New()

	ctl := chat.New(chat.Deps{
		Dialer:  dialer,
		Store:   st,
		Keys:    keys,
		Codec:   cdc,
		Log:     log,
		Metrics: m,
	}, chat.Options{
		MaxMessages: cfg.MaxMessages,
		SendRate:    cfg.SendRate,
		SendBurst:   cfg.SendBurst,
	})

	return &Wire{
		Config:  cfg,
		Log:     log,
		Keys:    keys,
		Codec:   cdc,
		Store:   st,
		Dialer:  dialer,
		Metrics: m,
		Chat:    ctl,
	}, nil
}

// OpenStore opens the endpoint store selected by cfg.Store.
func OpenStore(cfg Config, log zerolog.Logger) (domain.EndpointStore, error) {
	switch cfg.Store {
	case StorePebble:
		return store.OpenPebble(cfg.StateDir, log)
	case StoreFile:
		return store.NewFileStore(cfg.StateDir)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// Close ends any session, releases the store and wipes the session secret.
func (w *Wire) Close() error {
	err := errors.Join(w.Chat.Disconnect(), w.Store.Close())
	w.Keys.Destroy()
	return err
}
