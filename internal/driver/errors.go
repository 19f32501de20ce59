package driver

import (
	"errors"
	"net"
)

// ErrNotImplemented is returned by operations the bolt adapter does not support.
var ErrNotImplemented = errors.New("not implemented")

// ClientError reports a problem on the client side of the connection, such as
// a host name that does not resolve.
type ClientError struct {
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// translateError turns name resolution failures into a ClientError carrying the
// resolver's message. Anything else is returned as is.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ClientError{Message: dnsErr.Error(), Err: err}
	}
	return err
}
