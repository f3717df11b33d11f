package client

import (
	"github.com/lattice-db/redisgo/pkg/rerr"
	"github.com/lattice-db/redisgo/pkg/resp"
)

// ScriptLoad uploads a Lua script and returns its SHA1 digest for
// later EvalSha calls (the rlock mutex's compare-and-delete release
// path loads its script once per Mutex and caches the digest).
func (cl *Client) ScriptLoad(script string) (string, error) {
	reply, queued, err := cl.exec("SCRIPT", "LOAD", script)
	if err != nil || queued {
		return "", err
	}
	return expectBulkOrStatus("SCRIPT LOAD", reply)
}

// EvalSha runs a previously loaded script by digest, returning the
// script's reply verbatim for the caller to decode.
func (cl *Client) EvalSha(sha1 string, numKeys int, args ...string) (resp.Reply, error) {
	cmdArgs := append([]string{"EVALSHA", sha1, formatInt(int64(numKeys))}, args...)
	reply, queued, err := cl.exec(cmdArgs...)
	if err != nil || queued {
		return nil, err
	}
	return reply, nil
}

// Eval runs a Lua script by source, returning its reply verbatim.
// EvalSha should be preferred once a digest is known; Eval exists for
// the NOSCRIPT fallback path and ad-hoc scripting.
func (cl *Client) Eval(script string, numKeys int, args ...string) (resp.Reply, error) {
	cmdArgs := append([]string{"EVAL", script, formatInt(int64(numKeys))}, args...)
	reply, queued, err := cl.exec(cmdArgs...)
	if err != nil || queued {
		return nil, err
	}
	return reply, nil
}

// ScriptExists reports, for each sha1 digest, whether that script is
// present in the server's script cache.
func (cl *Client) ScriptExists(sha1s ...string) ([]bool, error) {
	reply, queued, err := cl.exec(append([]string{"SCRIPT", "EXISTS"}, sha1s...)...)
	if err != nil || queued {
		return nil, err
	}
	arr, err := expectArray("SCRIPT EXISTS", reply)
	if err != nil {
		return nil, err
	}
	out := make([]bool, 0, len(arr.Items))
	for _, item := range arr.Items {
		n, ok := item.(resp.Integer)
		if !ok {
			return nil, &rerr.UnexpectedReply{Command: "SCRIPT EXISTS", Reply: reply}
		}
		out = append(out, n.N != 0)
	}
	return out, nil
}

// ScriptFlush empties the server's script cache, invalidating every
// previously loaded SHA1 digest.
func (cl *Client) ScriptFlush() error {
	reply, queued, err := cl.exec("SCRIPT", "FLUSH")
	if err != nil || queued {
		return err
	}
	return expectStatus("SCRIPT FLUSH", reply, "OK")
}
