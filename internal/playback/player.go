package playback

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

var (
	// ErrNoActiveDevice is returned when no Spotify device can accept playback.
	ErrNoActiveDevice = errors.New("no Spotify device available; open Spotify somewhere and try again")

	// ErrAuthExpired is returned when the authorization was rejected and
	// re-authorization did not recover it.
	ErrAuthExpired = errors.New("spotify authorization expired")

	// ErrNetwork is returned for transport failures talking to the API.
	ErrNetwork = errors.New("spotify request failed")
)

// Authorizer provides authorized Spotify API clients for the player.
// *Session is the real implementation.
type Authorizer interface {
	Client(ctx context.Context) (*spotify.Client, error)
	Reauthorize(ctx context.Context) (*spotify.Client, error)
	Invalidate() error
}

// PlayerConfig configures a Player.
type PlayerConfig struct {
	Auth Authorizer

	// PreferredDevice pins playback to a device ID whenever it is listed.
	PreferredDevice string

	// OnDevice, when set, is called with the device ID playback went to.
	OnDevice func(deviceID string)
}

// Player starts playlist playback on the best available device.
type Player struct {
	config PlayerConfig
}

func NewPlayer(config PlayerConfig) *Player {
	return &Player{config: config}
}

// Play starts the playlist on a device. A rejected authorization triggers
// exactly one silent re-authorization before the error surfaces.
func (p *Player) Play(ctx context.Context, uri string) error {
	client, err := p.config.Auth.Client(ctx)
	if err != nil {
		return err
	}

	err = p.playOn(ctx, client, uri)
	if !errors.Is(err, ErrAuthExpired) {
		return err
	}

	log.Println("Authorization rejected, re-authorizing")
	client, rerr := p.config.Auth.Reauthorize(ctx)
	if rerr != nil {
		return fmt.Errorf("%w: re-authorization failed: %v", ErrAuthExpired, rerr)
	}
	return p.playOn(ctx, client, uri)
}

// Invalidate drops the cached authorization; the next Play runs the full flow.
func (p *Player) Invalidate() error {
	return p.config.Auth.Invalidate()
}

func (p *Player) playOn(ctx context.Context, client *spotify.Client, uri string) error {
	devices, err := client.PlayerDevices(ctx)
	if err != nil {
		return classify(err)
	}

	device, ok := pickDevice(devices, p.config.PreferredDevice)
	if !ok {
		return ErrNoActiveDevice
	}

	playlist := spotify.URI(uri)
	err = client.PlayOpt(ctx, &spotify.PlayOptions{
		DeviceID:        &device.ID,
		PlaybackContext: &playlist,
	})
	if err != nil {
		return classify(err)
	}

	if p.config.OnDevice != nil {
		p.config.OnDevice(string(device.ID))
	}
	return nil
}

// pickDevice prefers the pinned device, then the active one, then the first.
func pickDevice(devices []spotify.PlayerDevice, preferred string) (spotify.PlayerDevice, bool) {
	if len(devices) == 0 {
		return spotify.PlayerDevice{}, false
	}
	if preferred != "" {
		for _, d := range devices {
			if string(d.ID) == preferred {
				return d, true
			}
		}
	}
	for _, d := range devices {
		if d.Active {
			return d, true
		}
	}
	return devices[0], true
}

// classify maps API and transport failures onto the package error types.
func classify(err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrAuthExpired, apiErr.Message)
		case http.StatusNotFound:
			// Player endpoints 404 when no device can take the command.
			return fmt.Errorf("%w: %s", ErrNoActiveDevice, apiErr.Message)
		}
		return err
	}

	var refreshErr *oauth2.RetrieveError
	if errors.As(err, &refreshErr) {
		return fmt.Errorf("%w: token refresh rejected", ErrAuthExpired)
	}

	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
