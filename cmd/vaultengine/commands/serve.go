package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"os"

	"github.com/arkan-labs/vaultengine/internal/wire"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wire surface as JSON-RPC requests over stdio",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe reads jsonrpc2.Request objects from stdin and writes
// jsonrpc2.Response objects to stdout, dispatching each through a
// wire.Dispatcher. The project cache is restored first, then the vault
// named by --name/--vault is registered (or made active, if the cache
// already knew it); session.addVault requests may register more.
func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()
	sess, err := openSession(log)
	if err != nil {
		return err
	}
	dispatcher := wire.NewDispatcher(sess)

	reader := bufio.NewReader(os.Stdin)
	writer := bufio.NewWriter(os.Stdout)
	codec := jsonrpc2.VSCodeObjectCodec{}
	ctx := context.Background()

	for {
		req := &jsonrpc2.Request{}
		if err := codec.ReadObject(reader, req); err != nil {
			return nil // EOF or closed stdin ends the session cleanly.
		}

		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		env := dispatcher.Dispatch(ctx, req.Method, params)

		if req.Notif {
			continue
		}
		if err := writeEnvelope(writer, req.ID, env); err != nil {
			return err
		}
	}
}

func writeEnvelope(w *bufio.Writer, id jsonrpc2.ID, env wire.Envelope) error {
	codec := jsonrpc2.VSCodeObjectCodec{}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	raw := json.RawMessage(data)
	resp := &jsonrpc2.Response{ID: id, Result: &raw}
	if err := codec.WriteObject(w, resp); err != nil {
		return err
	}
	return w.Flush()
}
