package cli

import (
	"bufio"
	"io"

	"github.com/dmitrijs2005/authdash/internal/client/services"
	"github.com/dmitrijs2005/authdash/internal/client/storage"
	"github.com/dmitrijs2005/authdash/internal/logging"
)

// App is the state shared by every command of one invocation.
type App struct {
	authService services.AuthService
	store       storage.Store
	reader      *bufio.Reader
	out         io.Writer
	logger      logging.Logger
}

func NewApp(as services.AuthService, store storage.Store, in io.Reader, out io.Writer, logger logging.Logger) *App {
	return &App{
		authService: as,
		store:       store,
		reader:      bufio.NewReader(in),
		out:         out,
		logger:      logger,
	}
}
