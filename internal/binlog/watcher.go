package binlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"account-playground/models"

	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/go-mysql-org/go-mysql/replication"
	"go.uber.org/zap"
)

const accountsTable = "accounts"

// Config tells the watcher how to reach MySQL as a replication client.
type Config struct {
	ServerID uint32 // must be unique for each replica/client
	Host     string
	Port     uint16
	User     string
	Password string
	Schema   string // empty matches any schema
}

// Watcher streams row events of the accounts table and reports balance changes.
type Watcher struct {
	syncer *replication.BinlogSyncer
	schema string
	logger *zap.Logger
}

// NewWatcher creates a watcher. Nothing connects until Run.
func NewWatcher(cfg Config, logger *zap.Logger) *Watcher {
	syncer := replication.NewBinlogSyncer(replication.BinlogSyncerConfig{
		ServerID: cfg.ServerID,
		Flavor:   "mysql",
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
	})
	return &Watcher{syncer: syncer, schema: cfg.Schema, logger: logger}
}

// CurrentPosition reads the live binlog position of the server.
func CurrentPosition(ctx context.Context, db *sql.DB) (mysql.Position, error) {
	var file string
	var position uint32
	err := db.QueryRowContext(ctx, "SHOW MASTER STATUS").Scan(&file, &position, new(string), new(string), new(string))
	if err != nil {
		return mysql.Position{}, fmt.Errorf("CurrentPosition: %w", err)
	}
	return mysql.Position{Name: file, Pos: position}, nil
}

// Run streams from pos until ctx is cancelled or the watcher is closed, calling
// handle for every account change. Both ways of stopping return nil.
func (w *Watcher) Run(ctx context.Context, pos mysql.Position, handle func(models.AccountChange)) error {
	streamer, err := w.syncer.StartSync(pos)
	if err != nil {
		return fmt.Errorf("Run: failed to start binlog sync: %w", err)
	}
	w.logger.Info("binlog streamer started", zap.String("file", pos.Name), zap.Uint32("pos", pos.Pos))

	for {
		ev, err := streamer.GetEvent(ctx)
		if err != nil {
			if stopped(err) {
				w.logger.Info("binlog streamer stopped", zap.Error(err))
				return nil
			}
			return fmt.Errorf("Run: error getting event from stream: %w", err)
		}

		switch e := ev.Event.(type) {
		case *replication.RotateEvent:
			w.logger.Info("rotated to new binlog file", zap.ByteString("file", e.NextLogName), zap.Uint64("pos", e.Position))
		case *replication.RowsEvent:
			if !w.matches(e) {
				continue
			}
			changes, err := DecodeAccountChanges(ev.Header.EventType, e)
			if err != nil {
				w.logger.Warn("skipping undecodable accounts row event", zap.Error(err))
				continue
			}
			for _, c := range changes {
				handle(c)
			}
		}
	}
}

// Close stops the underlying syncer.
func (w *Watcher) Close() {
	w.syncer.Close()
}

// stopped reports whether err comes from a requested shutdown: a cancelled
// context or a syncer closed by Close.
func stopped(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, replication.ErrSyncClosed)
}

func (w *Watcher) matches(e *replication.RowsEvent) bool {
	if e.Table == nil || string(e.Table.Table) != accountsTable {
		return false
	}
	return w.schema == "" || strings.EqualFold(string(e.Table.Schema), w.schema)
}

// DecodeAccountChanges turns a rows event on the accounts table into changes.
// Rows follow the table's column order: account_id, customer_id, account_number, balance.
// For updates the rows come in before/after pairs.
func DecodeAccountChanges(eventType replication.EventType, e *replication.RowsEvent) ([]models.AccountChange, error) {
	var action string
	switch eventType {
	case replication.WRITE_ROWS_EVENTv1, replication.WRITE_ROWS_EVENTv2:
		action = "INSERT"
	case replication.UPDATE_ROWS_EVENTv1, replication.UPDATE_ROWS_EVENTv2:
		action = "UPDATE"
	case replication.DELETE_ROWS_EVENTv1, replication.DELETE_ROWS_EVENTv2:
		action = "DELETE"
	default:
		return nil, fmt.Errorf("DecodeAccountChanges: unsupported event type %s", eventType)
	}

	step := 1
	if action == "UPDATE" {
		step = 2
		if len(e.Rows)%2 != 0 {
			return nil, fmt.Errorf("DecodeAccountChanges: update event with %d rows is not before/after paired", len(e.Rows))
		}
	}

	changes := make([]models.AccountChange, 0, len(e.Rows)/step)
	for i := 0; i < len(e.Rows); i += step {
		row, err := decodeRow(e.Rows[i])
		if err != nil {
			return nil, err
		}
		change := models.AccountChange{Action: action, AccountID: row.AccountID, AccountNumber: row.AccountNumber}

		switch action {
		case "INSERT":
			change.BalanceAfter = row.Balance
		case "DELETE":
			change.BalanceBefore = row.Balance
		case "UPDATE":
			after, err := decodeRow(e.Rows[i+1])
			if err != nil {
				return nil, err
			}
			change.BalanceBefore = row.Balance
			change.BalanceAfter = after.Balance
		}
		changes = append(changes, change)
	}
	return changes, nil
}

func decodeRow(row []interface{}) (models.Account, error) {
	var acc models.Account
	if len(row) < 4 {
		return acc, fmt.Errorf("decodeRow: expected at least 4 columns, got %d", len(row))
	}
	var err error
	if acc.AccountID, err = toInt64(row[0]); err != nil {
		return acc, fmt.Errorf("decodeRow: account_id: %w", err)
	}
	if acc.CustomerID, err = toInt64(row[1]); err != nil {
		return acc, fmt.Errorf("decodeRow: customer_id: %w", err)
	}
	switch v := row[2].(type) {
	case string:
		acc.AccountNumber = v
	case []byte:
		acc.AccountNumber = string(v)
	default:
		return acc, fmt.Errorf("decodeRow: account_number: unexpected type %T", row[2])
	}
	switch v := row[3].(type) {
	case float64:
		acc.Balance = v
	case float32:
		acc.Balance = float64(v)
	default:
		return acc, fmt.Errorf("decodeRow: balance: unexpected type %T", row[3])
	}
	return acc, nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
