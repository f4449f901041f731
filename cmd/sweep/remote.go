package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/banshee-data/lanesim/internal/httputil"
	"github.com/banshee-data/lanesim/internal/sweep"
)

// remoteClient drives a sweep on a running lanesim server over its HTTP API.
type remoteClient struct {
	base   string
	client httputil.HTTPClient
	poll   time.Duration
}

func newRemoteClient(base string) *remoteClient {
	return &remoteClient{
		base:   strings.TrimSuffix(base, "/"),
		client: httputil.NewStandardClient(&http.Client{Timeout: 30 * time.Second}),
		poll:   2 * time.Second,
	}
}

// start asks the server to begin the sweep.
func (rc *remoteClient) start(req sweep.Request) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	resp, err := rc.client.Post(rc.base+"/api/sweep/start", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sweep start returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return nil
}

// status fetches the server's current sweep state.
func (rc *remoteClient) status() (sweep.State, error) {
	var state sweep.State
	resp, err := rc.client.Get(rc.base + "/api/sweep/status")
	if err != nil {
		return state, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return state, fmt.Errorf("status returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return state, err
	}
	return state, nil
}

// stop cancels the sweep on the server. Failures only get logged: the
// caller is already unwinding.
func (rc *remoteClient) stop() {
	req, err := http.NewRequest(http.MethodPost, rc.base+"/api/sweep/stop", nil)
	if err != nil {
		return
	}
	resp, err := rc.client.Do(req)
	if err != nil {
		log.Printf("WARNING: failed to stop remote sweep: %v", err)
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// wait polls until the sweep finishes, logging progress along the way. On
// cancellation the remote sweep is stopped before returning.
func (rc *remoteClient) wait(ctx context.Context) (sweep.State, error) {
	lastDone := -1
	for {
		select {
		case <-ctx.Done():
			rc.stop()
			return sweep.State{}, ctx.Err()
		case <-time.After(rc.poll):
		}

		state, err := rc.status()
		if err != nil {
			log.Printf("WARNING: status poll failed: %v", err)
			continue
		}

		switch state.Status {
		case sweep.StatusComplete:
			return state, nil
		case sweep.StatusError:
			return state, fmt.Errorf("remote sweep failed: %s", state.Error)
		case sweep.StatusIdle:
			return state, fmt.Errorf("remote runner is idle, another client may have stopped it")
		}

		if state.CompletedRatios != lastDone {
			log.Printf("Progress: %d/%d ratios", state.CompletedRatios, state.TotalRatios)
			lastDone = state.CompletedRatios
		}
	}
}

// runRemote performs the whole remote sweep and reshapes the final state
// into a local-style result. Raw per-trial rows stay on the server.
func runRemote(ctx context.Context, base string, req sweep.Request) (*sweep.Result, error) {
	rc := newRemoteClient(base)

	if err := rc.start(req); err != nil {
		return nil, err
	}
	log.Printf("Sweep started on %s", rc.base)

	state, err := rc.wait(ctx)
	if err != nil {
		return nil, err
	}

	res := &sweep.Result{Request: req, Ratios: state.Results}
	if state.StartedAt != nil {
		res.StartedAt = *state.StartedAt
	}
	if state.CompletedAt != nil {
		res.CompletedAt = *state.CompletedAt
	}
	return res, nil
}
