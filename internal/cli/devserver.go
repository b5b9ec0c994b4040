package cli

import (
	"time"

	"github.com/julianstephens/habitual/internal/devserver"
)

type DevserverCmd struct {
	Addr    string        `help:"Listen address." default:"127.0.0.1:8787"`
	Latency time.Duration `help:"Artificial delay added to every request."`
}

func (c *DevserverCmd) Run(ctx *Context) error {
	srv := devserver.New(devserver.NewStore(), devserver.WithLatency(c.Latency))
	ctx.printf("habitual devserver listening on http://%s/\n", c.Addr)
	ctx.printf("Point the client at it with: habitual config set api_url http://%s/\n", c.Addr)
	return srv.ListenAndServe(ctx.Ctx, c.Addr)
}
