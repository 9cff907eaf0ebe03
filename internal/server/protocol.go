package server

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/lifesim/internal/engine"
	"github.com/roach88/lifesim/internal/event"
)

// Command types accepted from clients.
const (
	CmdNewLife      = "new_life"
	CmdBeginActions = "begin_actions"
	CmdSetActions   = "set_actions"
	CmdCommit       = "commit"
	CmdAdvance      = "advance"
	CmdResolve      = "resolve"
	CmdRevive       = "revive"
	CmdLegacy       = "legacy"
	CmdSnapshot     = "snapshot"

	// cmdReviveConfirmed is submitted by the server itself once the reward
	// service confirms a revive. Clients cannot send it.
	cmdReviveConfirmed = "revive_confirmed"
)

// Message types sent to clients.
const (
	MsgState = "state"
	MsgError = "error"
)

// Command is one client request.
type Command struct {
	Type string `json:"type"`
	// Life configures new_life.
	Life *engine.LifeConfig `json:"life,omitempty"`
	// Actions are the free action ids for set_actions.
	Actions []string `json:"actions,omitempty"`
	// Choice is the choice id for resolve.
	Choice string `json:"choice,omitempty"`
	// Confirmation routes revive through the reward service.
	Confirmation string `json:"confirmation,omitempty"`
}

// Message is one server push.
type Message struct {
	Type string `json:"type"`
	// Command echoes the command that produced the message.
	Command  string           `json:"command,omitempty"`
	Snapshot *engine.Snapshot `json:"snapshot,omitempty"`
	Choices  []event.Choice   `json:"choices,omitempty"`
	Error    string           `json:"error,omitempty"`
	// Revived reports the outcome of a revive command.
	Revived *bool `json:"revived,omitempty"`
	// Pending is set when a revive waits on the reward service. The outcome
	// arrives later as a revive message with Revived set.
	Pending bool `json:"pending,omitempty"`
}

// DecodeCommand parses a client frame.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	if cmd.Type == "" {
		return Command{}, fmt.Errorf("decode command: missing type")
	}
	return cmd, nil
}

// apply runs cmd against e and returns the resulting state message. Guard
// violations inside the engine are silent no-ops; only unknown commands and
// commands that need a life before one exists are errors. A revive with a
// confirmation never reaches apply; the server confirms it off the loop.
func apply(e *engine.Engine, cmd Command) (Message, error) {
	if cmd.Type != CmdNewLife && cmd.Type != CmdSnapshot && e.Character() == nil {
		return Message{}, fmt.Errorf("%s: no life started", cmd.Type)
	}

	msg := Message{Type: MsgState, Command: cmd.Type}
	switch cmd.Type {
	case CmdNewLife:
		var cfg engine.LifeConfig
		if cmd.Life != nil {
			cfg = *cmd.Life
		}
		e.StartNewLife(cfg)
	case CmdBeginActions:
		e.BeginActionPhase()
	case CmdSetActions:
		e.SetChosenActions(cmd.Actions)
	case CmdCommit:
		e.CommitActionsAndAdvance()
	case CmdAdvance:
		e.AdvanceYear()
	case CmdResolve:
		e.ResolveChoice(cmd.Choice)
	case CmdRevive:
		ok := e.Revive()
		msg.Revived = &ok
	case CmdLegacy:
		e.Legacy()
	case CmdSnapshot:
	default:
		return Message{}, fmt.Errorf("unknown command %q", cmd.Type)
	}

	withState(e, &msg)
	return msg, nil
}

// withState attaches the current snapshot and choices to msg.
func withState(e *engine.Engine, msg *Message) {
	if e.Character() != nil {
		snap := e.Snapshot()
		msg.Snapshot = &snap
		msg.Choices = e.AvailableChoices()
	}
}
