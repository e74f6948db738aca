// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/obniz/obniz-cli-go/cmd/obniz/directory"
	"github.com/segmentio/analytics-go/v3"
	"github.com/spf13/viper"
)

// ConfigKey is the user config section holding the analytics settings.
const ConfigKey = "analytics"

// Config is opt-in: reports are only sent once enabled and a write key is
// configured.
type Config struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	ClientID string `mapstructure:"cid" yaml:"cid" json:"cid"`
	WriteKey string `mapstructure:"key" yaml:"key" json:"key"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
}

// Load reads the analytics section, assigning and persisting a client id
// on first use.
func Load(cfg *viper.Viper) (Config, error) {
	var res Config
	rewrite := true
	if cfg.IsSet(ConfigKey) {
		if err := cfg.UnmarshalKey(ConfigKey, &res); err == nil {
			rewrite = res.ClientID == ""
		}
	}

	if rewrite {
		res.ClientID = uuid.New().String()
		cfg.Set(ConfigKey, res)
		if err := directory.WriteConfig(cfg); err != nil {
			return res, err
		}
	}
	return res, nil
}

func GetClient() (Client, error) {
	cfg, err := directory.GetUserConfig()
	if err != nil {
		return nil, err
	}
	res, err := Load(cfg)
	if err != nil {
		return nil, err
	}

	if !res.Enabled || res.WriteKey == "" {
		return &proxyClient{disabled: true, identity: &Identity{AnonymousID: res.ClientID}}, nil
	}

	client, err := analytics.NewWithConfig(res.WriteKey, analytics.Config{
		Interval:  time.Millisecond,
		BatchSize: 1,
		Endpoint:  res.Endpoint,
		Logger:    noopLogger{},
	})
	if err != nil {
		return nil, err
	}

	return &proxyClient{
		identity: &Identity{AnonymousID: res.ClientID},
		Client:   client,
	}, nil
}

type noopLogger struct{}

func (noopLogger) Logf(format string, args ...interface{})   {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

type Client interface {
	Enqueue(analytics.Message) error
	Close() error
}

type proxyClient struct {
	disabled bool
	analytics.Client
	identity *Identity
}

func (c *proxyClient) Enqueue(msg analytics.Message) error {
	if c.disabled {
		return nil
	}
	return c.Client.Enqueue(c.identity.Populate(msg))
}

func (c *proxyClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

type Identity struct {
	AnonymousID string
}

func (i *Identity) Populate(msg analytics.Message) analytics.Message {
	switch t := msg.(type) {
	case analytics.Page:
		if t.AnonymousId == "" {
			t.AnonymousId = i.AnonymousID
		}
		return t
	case analytics.Track:
		if t.AnonymousId == "" {
			t.AnonymousId = i.AnonymousID
		}
		return t
	default:
		return msg
	}
}
