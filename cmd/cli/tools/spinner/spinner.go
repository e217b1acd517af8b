package spinner

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"bloodbridge/pkg/remote/client"
	"bloodbridge/pkg/remote/obj"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Wrap shows a spinner on stderr while each call of d is in flight. d is
// returned as is when stderr is not a terminal.
func Wrap(d client.Doer) client.Doer {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return d
	}

	return client.DoerFunc(func(ctx context.Context, r client.Request) obj.Result {
		pg := progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetDescription(fmt.Sprintf("%s %s", r.Method, r.Path)),
		)

		stop := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					_ = pg.Add(1)
				}
			}
		}()

		res := d.Do(ctx, r)

		close(stop)
		wg.Wait()
		pg.Finish()
		pg.Clear()
		pg.Close()
		return res
	})
}
