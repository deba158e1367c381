package buildtest

import (
	"testing"

	"golang.org/x/sys/execabs"
)

func TestSimpleCommandCollector(t *testing.T) {
	cc := &SimpleCommandCollector{}

	t.Run("LookPath pretends everything is in the PATH", func(t *testing.T) {
		path, err := cc.LookPath("xcodebuild")
		if err != nil {
			t.Fatal(err)
		}
		if path != "xcodebuild" {
			t.Fatal("invalid path", path)
		}
	})

	t.Run("CmdRun and CmdOutput collect the commands", func(t *testing.T) {
		if err := cc.CmdRun(execabs.Command("xcodebuild", "-version")); err != nil {
			t.Fatal(err)
		}
		output, err := cc.CmdOutput(execabs.Command("xcrun", "--find", "strip"))
		if err != nil {
			t.Fatal(err)
		}
		if len(output) != 0 {
			t.Fatal("expected empty output")
		}
		if len(cc.Commands) != 2 {
			t.Fatal("expected two collected commands, got", len(cc.Commands))
		}
	})
}

func TestCheckManyCommands(t *testing.T) {

	// newCommand creates a command with an empty environment so the
	// only variables we see are the common inherited ones.
	newCommand := func(name string, arg ...string) *execabs.Cmd {
		cmd := execabs.Command(name, arg...)
		cmd.Env = []string{}
		return cmd
	}

	t.Run("with matching commands", func(t *testing.T) {
		cmds := []*execabs.Cmd{
			newCommand("/usr/bin/xcodebuild", "-version"),
		}
		expect := []ExecExpectations{{
			Env:  []string{},
			Argv: []string{"xcodebuild", "-version"},
		}}
		if err := CheckManyCommands(cmds, expect); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("with a length mismatch", func(t *testing.T) {
		cmds := []*execabs.Cmd{
			newCommand("xcodebuild", "-version"),
		}
		if err := CheckManyCommands(cmds, []ExecExpectations{}); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("with a program mismatch", func(t *testing.T) {
		cmds := []*execabs.Cmd{
			newCommand("xcodebuild", "-version"),
		}
		expect := []ExecExpectations{{
			Env:  []string{},
			Argv: []string{"xcrun", "-version"},
		}}
		if err := CheckManyCommands(cmds, expect); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("with an arguments mismatch", func(t *testing.T) {
		cmds := []*execabs.Cmd{
			newCommand("xcodebuild", "-version"),
		}
		expect := []ExecExpectations{{
			Env:  []string{},
			Argv: []string{"xcodebuild", "-license"},
		}}
		if err := CheckManyCommands(cmds, expect); err == nil {
			t.Fatal("expected an error")
		}
	})
}
