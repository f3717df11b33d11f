package client

import (
	"strconv"

	"github.com/lattice-db/redisgo/pkg/rerr"
)

// Auth authenticates the connection with a single password.
func (cl *Client) Auth(password string) error {
	reply, queued, err := cl.exec("AUTH", password)
	if err != nil || queued {
		return err
	}
	if err := expectStatus("AUTH", reply, "OK"); err != nil {
		return err
	}
	cl.conn.SetAuthenticated(true)
	return nil
}

// AuthUser authenticates with ACL-style username/password credentials.
func (cl *Client) AuthUser(username, password string) error {
	reply, queued, err := cl.exec("AUTH", username, password)
	if err != nil || queued {
		return err
	}
	if err := expectStatus("AUTH", reply, "OK"); err != nil {
		return err
	}
	cl.conn.SetAuthenticated(true)
	return nil
}

// Select switches the connection's active database.
func (cl *Client) Select(db int) error {
	reply, queued, err := cl.exec("SELECT", strconv.Itoa(db))
	if err != nil || queued {
		return err
	}
	if err := expectStatus("SELECT", reply, "OK"); err != nil {
		return err
	}
	cl.conn.SetSelectedDB(db)
	return nil
}

// Ping round-trips PING, returning the server's echoed message ("PONG"
// when message is empty).
func (cl *Client) Ping(message string) (string, error) {
	if message == "" {
		r, queued, err := cl.exec("PING")
		if err != nil || queued {
			return "", err
		}
		return expectStatusText("PING", r)
	}
	r, queued, err := cl.exec("PING", message)
	if err != nil || queued {
		return "", err
	}
	return expectBulkOrStatus("PING", r)
}

// FlushDB removes every key from the currently selected database.
func (cl *Client) FlushDB() error {
	reply, queued, err := cl.exec("FLUSHDB")
	if err != nil || queued {
		return err
	}
	return expectStatus("FLUSHDB", reply, "OK")
}

// FlushAll removes every key from every database on the server.
func (cl *Client) FlushAll() error {
	reply, queued, err := cl.exec("FLUSHALL")
	if err != nil || queued {
		return err
	}
	return expectStatus("FLUSHALL", reply, "OK")
}

// Echo round-trips message, verifying the connection is alive.
func (cl *Client) Echo(message string) (string, error) {
	reply, queued, err := cl.exec("ECHO", message)
	if err != nil || queued {
		return "", err
	}
	s, _, err := expectBulkOptional("ECHO", reply)
	return s, err
}

// DBSize returns the number of keys in the currently selected database.
func (cl *Client) DBSize() (int64, error) {
	reply, queued, err := cl.exec("DBSIZE")
	if err != nil || queued {
		return 0, err
	}
	return expectInteger("DBSIZE", reply)
}

// Info returns the server's INFO report as raw text, in whichever
// section(s) section names (empty selects the default sections).
func (cl *Client) Info(section string) (string, error) {
	args := []string{"INFO"}
	if section != "" {
		args = append(args, section)
	}
	reply, queued, err := cl.exec(args...)
	if err != nil || queued {
		return "", err
	}
	s, _, err := expectBulkOptional("INFO", reply)
	return s, err
}

// ClientGetName returns the name assigned to this connection by
// ClientSetName, or "" if none was set.
func (cl *Client) ClientGetName() (string, error) {
	reply, queued, err := cl.exec("CLIENT", "GETNAME")
	if err != nil || queued {
		return "", err
	}
	s, _, err := expectBulkOptional("CLIENT GETNAME", reply)
	return s, err
}

// ClientSetName assigns name to this connection, visible in CLIENT
// LIST on the server.
func (cl *Client) ClientSetName(name string) error {
	reply, queued, err := cl.exec("CLIENT", "SETNAME", name)
	if err != nil || queued {
		return err
	}
	return expectStatus("CLIENT SETNAME", reply, "OK")
}

// Quit tells the server to close the connection, then closes the
// local socket.
func (cl *Client) Quit() error {
	reply, queued, err := cl.exec("QUIT")
	if err != nil || queued {
		return err
	}
	if err := expectStatus("QUIT", reply, "OK"); err != nil {
		return err
	}
	return cl.Close()
}

// Time returns the server's current Unix time as (seconds,
// microseconds), decoded from TIME's two-element bulk-string array.
func (cl *Client) Time() (seconds, microseconds int64, err error) {
	reply, queued, err := cl.exec("TIME")
	if err != nil || queued {
		return 0, 0, err
	}
	arr, err := expectArray("TIME", reply)
	if err != nil {
		return 0, 0, err
	}
	parts, err := decodeStringSlice("TIME", arr)
	if err != nil || len(parts) != 2 {
		return 0, 0, &rerr.UnexpectedReply{Command: "TIME", Reply: reply}
	}
	seconds, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	microseconds, err = strconv.ParseInt(parts[1], 10, 64)
	return seconds, microseconds, err
}
