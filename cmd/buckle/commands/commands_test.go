package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/buckle/cmd/buckle/commands"
	"go.trai.ch/buckle/internal/app"
	"go.trai.ch/buckle/internal/build"
)

type mockApp struct {
	generateFunc func(ctx context.Context, opts app.GenerateOptions) error
	cleanFunc    func(ctx context.Context, opts app.CleanOptions) error
}

func (m *mockApp) Generate(ctx context.Context, opts app.GenerateOptions) error {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

func TestCommands_Generate(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.GenerateOptions
		called := false

		mock := &mockApp{
			generateFunc: func(_ context.Context, opts app.GenerateOptions) error {
				captured = opts
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"generate", "--watch", "--trace", "-v", "--log-format", "json"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, app.GenerateOptions{
			Watch:     true,
			Trace:     true,
			Verbose:   true,
			LogFormat: "json",
		}, captured)
	})

	t.Run("defaults", func(t *testing.T) {
		var captured app.GenerateOptions
		mock := &mockApp{
			generateFunc: func(_ context.Context, opts app.GenerateOptions) error {
				captured = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"gen"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.GenerateOptions{LogFormat: "auto"}, captured)
	})

	t.Run("returns error on generation failure", func(t *testing.T) {
		mock := &mockApp{
			generateFunc: func(_ context.Context, _ app.GenerateOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"generate"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("rejects arguments", func(t *testing.T) {
		cli := commands.New(&mockApp{})
		cli.SetArgs([]string{"generate", "app"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestCommands_Clean(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.CleanOptions
	}{
		{name: "default", args: []string{"clean"}, want: app.CleanOptions{}},
		{name: "rules", args: []string{"clean", "--rules"}, want: app.CleanOptions{Rules: true}},
		{name: "rules shorthand", args: []string{"clean", "-r"}, want: app.CleanOptions{Rules: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured app.CleanOptions
			mock := &mockApp{
				cleanFunc: func(_ context.Context, opts app.CleanOptions) error {
					captured = opts
					return nil
				},
			}

			cli := commands.New(mock)
			cli.SetArgs(tt.args)

			require.NoError(t, cli.Execute(context.Background()))
			assert.Equal(t, tt.want, captured)
		})
	}
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "buckle version "+build.Version)
}

func TestCommands_VersionFlag(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"--version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "(commit: "+build.Commit)
}
