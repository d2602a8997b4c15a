package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"murmur/internal/assembly"
	"murmur/internal/config"
	"murmur/internal/logging"
	"murmur/internal/media/concat"
	"murmur/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

// withLockedStore guards ordering mutations with the assembly lock so a
// reorder cannot interleave with an in-flight merge in another process.
func (c *commandContext) withLockedStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock, err := assembly.AcquireLock(cfg)
	if err != nil {
		return err
	}
	defer lock.Release()
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

func (c *commandContext) withAssembler(fn func(*config.Config, *store.Store, *assembly.Assembler) error) error {
	return c.withStore(func(cfg *config.Config, st *store.Store) error {
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			return err
		}
		engine := concat.NewFFmpeg(
			concat.WithBinary(cfg.FFmpegBinary()),
			concat.WithProbeBinary(cfg.FFprobeBinary()),
			concat.WithLogger(logger),
		)
		asm, err := assembly.New(cfg, st, engine, logger)
		if err != nil {
			return err
		}
		return fn(cfg, st, asm)
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
