package cassandra

import (
	"errors"
	"fmt"
	"net"

	"github.com/gocql/gocql"
)

var (
	// ErrConnection means the cluster could not be reached. Not retried here.
	ErrConnection = errors.New("cassandra unreachable")
	// ErrQuery means the statement was rejected by the store.
	ErrQuery = errors.New("query failed")
)

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gocql.ErrNoConnections) ||
		errors.Is(err, gocql.ErrConnectionClosed) ||
		errors.Is(err, gocql.ErrTimeoutNoResponse) ||
		errors.Is(err, gocql.ErrNoKeyspace) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return fmt.Errorf("%w: %v", ErrQuery, err)
}
