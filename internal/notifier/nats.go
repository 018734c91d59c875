package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

type publisher interface {
	Publish(subject string, data []byte) error
}

type NatsNotifier struct {
	conn    *nats.Conn
	pub     publisher
	subject string
	logger  *logger.Logger
}

// New connects to NATS when a URL is configured and returns a no-op
// notifier otherwise.
func New(appConfig *config.AppConfig, logger *logger.Logger) (INotifier, error) {
	if appConfig.Nats.URL == "" {
		return Noop{}, nil
	}

	conn, err := nats.Connect(appConfig.Nats.URL,
		nats.Name("casper-bridge-relayer"),
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			fields := map[string]string{"url": appConfig.Nats.URL}
			if err != nil {
				fields["error"] = err.Error()
			}
			logger.Warn("[notifier][nats] disconnected", fields)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("[notifier][nats] reconnected", map[string]string{"url": nc.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "connect nats")
	}

	return &NatsNotifier{
		conn:    conn,
		pub:     conn,
		subject: appConfig.Nats.Subject,
		logger:  logger,
	}, nil
}

func (n *NatsNotifier) SwapStatusChanged(ctx context.Context, swap *model.Swap) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(NewSwapStatusMessage(swap))
	if err != nil {
		return err
	}
	if err := n.pub.Publish(n.subject, data); err != nil {
		n.logger.Error("[SwapStatusChanged][Publish]", map[string]string{
			"swapId":  swap.SwapID,
			"subject": n.subject,
			"error":   err.Error(),
		})
		return errors.Wrap(err, "publish swap status")
	}
	return nil
}

func (n *NatsNotifier) Close() {
	if n.conn == nil {
		return
	}
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
	}
}

type Noop struct{}

func (Noop) SwapStatusChanged(context.Context, *model.Swap) error { return nil }

func (Noop) Close() {}
