package main

import (
	"errors"
	"fmt"
	"net/http"

	"resume-builder/internal/apiclient"
	"resume-builder/internal/kv"
	"resume-builder/internal/resume"
	"resume-builder/internal/resumecache"
	"resume-builder/internal/shared/telemetry"
)

const tokenKey = "auth-token"

// session is the client-side state shared by every command.
type session struct {
	mirror kv.Store
	store  *resume.Store
	bridge *resume.Bridge
	client *apiclient.Client
	cache  *resumecache.Cache
}

func openSession(opts *rootOptions) (*session, error) {
	file, err := kv.NewFile(opts.stateDir)
	if err != nil {
		return nil, err
	}
	mirror := kv.NewDual(file, kv.NewMemory())

	token, _, err := mirror.Get(tokenKey)
	if err != nil {
		telemetry.Warn("resumectl.token_read_failed", map[string]any{"error": err})
	}
	client := apiclient.New(opts.apiURL,
		apiclient.WithToken(token),
		apiclient.WithTimeout(opts.timeout),
	)

	store := resume.NewStore(mirror)
	return &session{
		mirror: mirror,
		store:  store,
		bridge: resume.NewBridge(store),
		client: client,
		cache:  resumecache.New(client, mirror, nil),
	}, nil
}

func (s *session) saveToken(token string) error {
	if err := s.mirror.Set(tokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// signOut drops the token and the cached list of the previous account.
func (s *session) signOut() error {
	s.cache.SetResumes(nil)
	return errors.Join(
		s.mirror.Delete(tokenKey),
		s.mirror.Delete(resumecache.MirrorKey),
	)
}

func (s *session) requireToken() error {
	if s.client.Token() == "" {
		return errNotSignedIn
	}
	return nil
}

var errNotSignedIn = errors.New("not signed in, run `resumectl login` first")

// explain turns API failures into messages for the terminal.
func explain(err error) error {
	if err == nil {
		return nil
	}
	if apiclient.IsStatus(err, http.StatusUnauthorized) {
		return fmt.Errorf("%w (%v)", errNotSignedIn, err)
	}
	return errors.New(resumecache.Message(err))
}
