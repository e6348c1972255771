package app

import (
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/ryabkov/vicmd/internal/config"
	"github.com/ryabkov/vicmd/internal/editor"
	"github.com/ryabkov/vicmd/internal/gitinfo"
	"github.com/ryabkov/vicmd/internal/logger"
	"github.com/ryabkov/vicmd/internal/session"
	"github.com/ryabkov/vicmd/internal/tags"
)

// App is the top-level runtime for vicmd.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Debug); err != nil {
		return err
	}
	defer logger.Close()

	ix := buildIndex(cfg.Tags)

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	ed := editor.New(cfg, ix)
	defer ed.Shutdown()

	if sm, err := session.NewManager(); err == nil {
		ed.SetSessionManager(sm)
	} else {
		logger.Warn("session persistence unavailable", "err", err)
	}

	gitPath := ""
	if len(a.args) > 0 {
		if err := ed.OpenFile(a.args[0]); err != nil {
			return err
		}
		gitPath = a.args[0]
	}
	if gitPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			gitPath = cwd
		}
	}
	ed.SetGitBranch(gitinfo.Branch(gitPath))

	ed.Render(s)
	for {
		ev := s.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		}
		ed.Render(s)
	}
}

// buildIndex opens the configured tag table, falling back to generated
// tags for Go sources when the table is missing and generation is on.
func buildIndex(opts config.TagsOptions) *tags.Index {
	if _, err := os.Stat(opts.File); err != nil && opts.Generate {
		recs, genErr := tags.Generate(opts.Root)
		if genErr != nil {
			logger.Error("tag generation failed", "root", opts.Root, "err", genErr)
			return tags.NewIndex(opts.File)
		}
		return tags.FromRecords(recs)
	}
	return tags.NewIndex(opts.File)
}
