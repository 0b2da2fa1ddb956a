package wire

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arkan-labs/vaultengine/internal/batch"
	"github.com/arkan-labs/vaultengine/internal/session"
	"github.com/arkan-labs/vaultengine/internal/vaulterr"
)

// Dispatcher routes typed calls to a Session's vaults. Each method name
// accepted by Dispatch maps to one unexported handler (readFile, writeFile,
// parseFile, editFile, dispatchBatch, addVault, setActive, listVaults) for
// a public operation on C6/C7/C8 named in §6; Dispatch is the entry point cmd/vaultengine's transport
// loop calls with a raw method name and parameter blob.
type Dispatcher struct {
	sess *session.Session
}

// NewDispatcher returns a Dispatcher over sess.
func NewDispatcher(sess *session.Session) *Dispatcher {
	return &Dispatcher{sess: sess}
}

// Dispatch resolves method to a handler and unmarshals params into its
// expected request type. Unknown methods produce a NotFound Envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, method string, params json.RawMessage) Envelope {
	started := time.Now()
	switch method {
	case "vault.read":
		return runHandler(ctx, method, started, params, d.readFile)
	case "vault.write":
		return runHandler(ctx, method, started, params, d.writeFile)
	case "vault.parse":
		return runHandler(ctx, method, started, params, d.parseFile)
	case "vault.edit":
		return runHandler(ctx, method, started, params, d.editFile)
	case "batch.execute":
		return d.dispatchBatch(ctx, method, started, params)
	case "session.addVault":
		return runHandler(ctx, method, started, params, d.addVault)
	case "session.setActive":
		return runHandler(ctx, method, started, params, d.setActive)
	case "session.listVaults":
		return d.listVaults(method)
	default:
		return Fail("", method, started, vaulterr.NotFoundErr(method, "unknown operation %q", method))
	}
}

func runHandler[T any](ctx context.Context, method string, started time.Time, raw json.RawMessage, fn func(context.Context, T) (string, any, error)) Envelope {
	var req T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			return Fail("", method, started, vaulterr.ValidationErr("invalid params for %q: %v", method, err))
		}
	}
	vaultName, data, err := fn(ctx, req)
	if err != nil {
		return Fail(vaultName, method, started, err)
	}
	return Ok(vaultName, method, started, data)
}

type ReadParams struct {
	Vault string `json:"vault"`
	Path  string `json:"path"`
}

func (d *Dispatcher) readFile(ctx context.Context, p ReadParams) (string, any, error) {
	mgr, err := d.sess.Manager(ctx, p.Vault)
	if err != nil {
		return p.Vault, nil, err
	}
	content, err := mgr.ReadFile(p.Path)
	if err != nil {
		return p.Vault, nil, err
	}
	return p.Vault, content, nil
}

type WriteParams struct {
	Vault   string `json:"vault"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (d *Dispatcher) writeFile(ctx context.Context, p WriteParams) (string, any, error) {
	mgr, err := d.sess.Manager(ctx, p.Vault)
	if err != nil {
		return p.Vault, nil, err
	}
	if err := mgr.WriteFile(p.Path, p.Content); err != nil {
		return p.Vault, nil, err
	}
	return p.Vault, nil, nil
}

type ParseParams struct {
	Vault string `json:"vault"`
	Path  string `json:"path"`
}

func (d *Dispatcher) parseFile(ctx context.Context, p ParseParams) (string, any, error) {
	mgr, err := d.sess.Manager(ctx, p.Vault)
	if err != nil {
		return p.Vault, nil, err
	}
	doc, err := mgr.ParseFile(p.Path)
	if err != nil {
		return p.Vault, nil, err
	}
	return p.Vault, doc, nil
}

type EditParams struct {
	Vault        string `json:"vault"`
	Path         string `json:"path"`
	Instruction  string `json:"instruction"`
	ExpectedHash string `json:"expectedHash"`
	DryRun       bool   `json:"dryRun"`
}

func (d *Dispatcher) editFile(ctx context.Context, p EditParams) (string, any, error) {
	mgr, err := d.sess.Manager(ctx, p.Vault)
	if err != nil {
		return p.Vault, nil, err
	}
	result, err := mgr.EditFile(p.Path, p.Instruction, p.ExpectedHash, p.DryRun)
	if err != nil {
		return p.Vault, nil, err
	}
	return p.Vault, result, nil
}

type BatchParams struct {
	Vault string     `json:"vault"`
	Ops   []batch.Op `json:"ops"`
}

// dispatchBatch handles batch.execute specially: per §7's propagation
// policy, a per-op failure inside the batch is downgraded into a
// structured result (the call itself still succeeds; Result.FailedIndex
// marks which op failed). Only a Validate-stage rejection -- a malformed
// batch that never ran -- is a call-level Fail.
func (d *Dispatcher) dispatchBatch(ctx context.Context, method string, started time.Time, raw json.RawMessage) Envelope {
	var p BatchParams
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return Fail("", method, started, vaulterr.ValidationErr("invalid params for %q: %v", method, err))
		}
	}
	mgr, err := d.sess.Manager(ctx, p.Vault)
	if err != nil {
		return Fail(p.Vault, method, started, err)
	}
	result, err := batch.Execute(mgr, p.Ops)
	if err != nil && result.TransactionID == "" {
		return Fail(p.Vault, method, started, err)
	}
	env := Ok(p.Vault, method, started, result)
	if err != nil {
		env = WithWarnings(env, "batch op "+result.Results[result.FailedIndex].Op.Kind.String()+" failed: "+err.Error())
	}
	return env
}

type AddVaultParams struct {
	Name string `json:"name"`
	Root string `json:"root"`
}

func (d *Dispatcher) addVault(_ context.Context, p AddVaultParams) (string, any, error) {
	if err := d.sess.AddVault(p.Name, p.Root); err != nil {
		return p.Name, nil, err
	}
	return p.Name, nil, nil
}

type SetActiveParams struct {
	Name string `json:"name"`
}

func (d *Dispatcher) setActive(_ context.Context, p SetActiveParams) (string, any, error) {
	if err := d.sess.SetActive(p.Name); err != nil {
		return p.Name, nil, err
	}
	return p.Name, nil, nil
}

func (d *Dispatcher) listVaults(method string) Envelope {
	started := time.Now()
	names := d.sess.ListVaults()
	return WithCount(Ok("", method, started, names), len(names))
}
