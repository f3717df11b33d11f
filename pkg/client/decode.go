package client

import (
	"github.com/lattice-db/redisgo/pkg/resp"
	"github.com/lattice-db/redisgo/pkg/rerr"
)

// asServerError converts a RESP error reply into a Go error, leaving
// every other reply shape untouched.
func asServerError(reply resp.Reply) error {
	if se, ok := reply.(resp.ServerError); ok {
		return &rerr.ServerError{Msg: se.Text}
	}
	return nil
}

func expectStatus(cmd string, reply resp.Reply, want string) error {
	if err := asServerError(reply); err != nil {
		return err
	}
	status, ok := reply.(resp.Status)
	if !ok || status.Text != want {
		return &rerr.UnexpectedReply{Command: cmd, Reply: reply}
	}
	return nil
}

// expectStatusText decodes a +status reply without constraining its
// text, for commands whose status carries data (e.g. TYPE).
func expectStatusText(cmd string, reply resp.Reply) (string, error) {
	if err := asServerError(reply); err != nil {
		return "", err
	}
	status, ok := reply.(resp.Status)
	if !ok {
		return "", &rerr.UnexpectedReply{Command: cmd, Reply: reply}
	}
	return status.Text, nil
}

// expectBulkOrStatus decodes either a +status or a $bulk reply as
// plain text, for commands like PING <message> whose reply shape
// depends on arguments rather than the command name alone.
func expectBulkOrStatus(cmd string, reply resp.Reply) (string, error) {
	if err := asServerError(reply); err != nil {
		return "", err
	}
	if status, ok := reply.(resp.Status); ok {
		return status.Text, nil
	}
	if b, ok := reply.(resp.Bulk); ok && b.Present {
		return string(b.Data), nil
	}
	return "", &rerr.UnexpectedReply{Command: cmd, Reply: reply}
}

// expectBulkOrStatusOptional decodes a conditional SET's reply: a
// +OK status (applied) or the null bulk (not applied, condition
// unmet).
func expectBulkOrStatusOptional(cmd string, reply resp.Reply) (string, bool, error) {
	if err := asServerError(reply); err != nil {
		return "", false, err
	}
	if status, ok := reply.(resp.Status); ok {
		return status.Text, true, nil
	}
	if b, ok := reply.(resp.Bulk); ok {
		if !b.Present {
			return "", false, nil
		}
		return string(b.Data), true, nil
	}
	return "", false, &rerr.UnexpectedReply{Command: cmd, Reply: reply}
}

func expectInteger(cmd string, reply resp.Reply) (int64, error) {
	if err := asServerError(reply); err != nil {
		return 0, err
	}
	n, ok := reply.(resp.Integer)
	if !ok {
		return 0, &rerr.UnexpectedReply{Command: cmd, Reply: reply}
	}
	return n.N, nil
}

func expectBool(cmd string, reply resp.Reply) (bool, error) {
	n, err := expectInteger(cmd, reply)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// expectBulkOptional decodes a $bulk reply that may be the null bulk
// string, distinguishing "absent" from "empty".
func expectBulkOptional(cmd string, reply resp.Reply) (string, bool, error) {
	if err := asServerError(reply); err != nil {
		return "", false, err
	}
	b, ok := reply.(resp.Bulk)
	if !ok {
		return "", false, &rerr.UnexpectedReply{Command: cmd, Reply: reply}
	}
	if !b.Present {
		return "", false, nil
	}
	return string(b.Data), true, nil
}

// expectArray decodes a *array reply that may be the null array.
func expectArray(cmd string, reply resp.Reply) (resp.Array, error) {
	if err := asServerError(reply); err != nil {
		return resp.Array{}, err
	}
	arr, ok := reply.(resp.Array)
	if !ok {
		return resp.Array{}, &rerr.UnexpectedReply{Command: cmd, Reply: reply}
	}
	return arr, nil
}

// decodeBulkSlice maps a present array's items through
// expectBulkOptional, preserving per-element absence (e.g. MGET's
// per-key nil for missing keys).
func decodeBulkSlice(cmd string, arr resp.Array) ([]*string, error) {
	if !arr.Present {
		return nil, nil
	}
	out := make([]*string, len(arr.Items))
	for i, item := range arr.Items {
		s, present, err := expectBulkOptional(cmd, item)
		if err != nil {
			return nil, err
		}
		if present {
			out[i] = &s
		}
	}
	return out, nil
}

// decodeStringSlice maps a present array's items through
// expectBulkOptional, dropping presence and substituting "" for
// absent elements — used where the command guarantees every element
// is a real bulk string (e.g. SMEMBERS, KEYS).
func decodeStringSlice(cmd string, arr resp.Array) ([]string, error) {
	if !arr.Present {
		return nil, nil
	}
	out := make([]string, len(arr.Items))
	for i, item := range arr.Items {
		s, _, err := expectBulkOptional(cmd, item)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
