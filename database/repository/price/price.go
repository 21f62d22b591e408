// Package price persists the replayed price series. Percent changes are
// derived by the feed and never stored
package price

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thrasher-corp/papertrader/currency"
	"github.com/thrasher-corp/papertrader/database"
	"github.com/thrasher-corp/papertrader/feed"
	"github.com/thrasher-corp/papertrader/log"
)

const (
	insertQuery = `INSERT INTO price_series (exchange, base, quote, unix_date, datetime, price) VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (exchange, base, quote, unix_date) DO UPDATE SET datetime = excluded.datetime, price = excluded.price`
	seriesQuery = `SELECT unix_date, price FROM price_series
	WHERE exchange = ? AND base = ? AND quote = ? AND unix_date BETWEEN ? AND ?
	ORDER BY unix_date`
)

// CreateTable creates the price_series table when it does not exist
func CreateTable(ctx context.Context, i *database.Instance) error {
	db, err := i.GetSQL()
	if err != nil {
		return err
	}
	query, err := database.Schema(i.Driver())
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, query)
	return err
}

func validate(exchangeName string, p currency.Pair) error {
	if exchangeName == "" || p.Base.IsEmpty() || p.Quote.IsEmpty() {
		return errInvalidInput
	}
	return nil
}

// Insert stores points for a pair in one transaction, replacing any points
// already stored at the same unix date
func Insert(ctx context.Context, i *database.Instance, exchangeName string, p currency.Pair, points []feed.Point) (err error) {
	if err = validate(exchangeName, p); err != nil {
		return err
	}
	if len(points) == 0 {
		return errNoPoints
	}
	db, err := i.GetSQL()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if errRB := tx.Rollback(); errRB != nil {
				log.Errorf(log.DatabaseMgr, "price insert rollback failed: %v", errRB)
			}
		}
	}()
	stmt, err := tx.PrepareContext(ctx, i.Rebind(insertQuery))
	if err != nil {
		return err
	}
	defer stmt.Close()

	exchangeName = strings.ToLower(exchangeName)
	base, quote := strings.ToUpper(p.Base.String()), strings.ToUpper(p.Quote.String())
	for x := range points {
		ts := points[x].Timestamp.UTC()
		if _, err = stmt.ExecContext(ctx, exchangeName, base, quote, ts.Unix(), ts.Format(time.RFC3339), points[x].Price.String()); err != nil {
			return fmt.Errorf("point %d at %v: %w", x, ts, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	log.Debugf(log.DatabaseMgr, "stored %d %s %s prices", len(points), exchangeName, p)
	return nil
}

// Series loads the points of a pair between start and end inclusive,
// ordered by time
func Series(ctx context.Context, i *database.Instance, exchangeName string, p currency.Pair, start, end time.Time) ([]feed.Point, error) {
	if err := validate(exchangeName, p); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %v before %v", errInvalidInput, end, start)
	}
	db, err := i.GetSQL()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, i.Rebind(seriesQuery),
		strings.ToLower(exchangeName),
		strings.ToUpper(p.Base.String()),
		strings.ToUpper(p.Quote.String()),
		start.UTC().Unix(),
		end.UTC().Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resp []feed.Point
	for rows.Next() {
		var (
			unix int64
			pt   feed.Point
		)
		if err = rows.Scan(&unix, &pt.Price); err != nil {
			return nil, err
		}
		pt.Timestamp = time.Unix(unix, 0).UTC()
		resp = append(resp, pt)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("%w for %s %s between %v and %v", feed.ErrNoData, exchangeName, p, start, end)
	}
	return resp, nil
}

// Delete removes every stored point of a pair
func Delete(ctx context.Context, i *database.Instance, exchangeName string, p currency.Pair) (int64, error) {
	if err := validate(exchangeName, p); err != nil {
		return 0, err
	}
	db, err := i.GetSQL()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, i.Rebind(`DELETE FROM price_series WHERE exchange = ? AND base = ? AND quote = ?`),
		strings.ToLower(exchangeName), strings.ToUpper(p.Base.String()), strings.ToUpper(p.Quote.String()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
