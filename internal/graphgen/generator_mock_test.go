package graphgen_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zeta1999/celerity-runtime/internal/commandgraph"
	"github.com/zeta1999/celerity-runtime/internal/ctxlog"
	"github.com/zeta1999/celerity-runtime/internal/graphgen"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/mocks"
	"github.com/zeta1999/celerity-runtime/internal/rangemapper"
	"github.com/zeta1999/celerity-runtime/internal/region"
	"github.com/zeta1999/celerity-runtime/internal/taskgraph"

	"context"
	"io"
	"log/slog"
)

func mockTestContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// TestGenerator_DrainsGraphViaMock drives the generator against a
// gomock-backed taskgraph.Graph, proving it only ever calls the three
// contract methods and stops as soon as GetSatisfiedTask reports none left.
func TestGenerator_DrainsGraphViaMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	tg := mocks.NewMockGraph(ctrl)

	task := &taskgraph.Task{
		ID:         1,
		Kind:       taskgraph.Compute,
		Dimensions: 1,
		GlobalSize: region.Point{40, 1, 1},
		Accesses: []taskgraph.Access{
			{Buffer: 1, Mapper: rangemapper.Identity1D(rangemapper.Write)},
		},
	}

	gomock.InOrder(
		tg.EXPECT().GetSatisfiedTask().Return(ids.TaskID(1), true),
		tg.EXPECT().GetTask(ids.TaskID(1)).Return(task, nil),
		tg.EXPECT().MarkTaskAsProcessed(ids.TaskID(1)).Return(nil),
		tg.EXPECT().GetSatisfiedTask().Return(ids.TaskID(0), false),
	)

	cg := commandgraph.New()
	gen := graphgen.New(cg, 1)

	require.NoError(t, gen.Run(mockTestContext(), tg))
	assert.Equal(t, 1, cg.TaskCommandCount(1))
}

// TestGenerator_PropagatesGetTaskError asserts a failing GetTask call aborts
// Run without ever calling MarkTaskAsProcessed.
func TestGenerator_PropagatesGetTaskError(t *testing.T) {
	ctrl := gomock.NewController(t)
	tg := mocks.NewMockGraph(ctrl)

	wantErr := errors.New("boom")
	tg.EXPECT().GetSatisfiedTask().Return(ids.TaskID(1), true)
	tg.EXPECT().GetTask(ids.TaskID(1)).Return(nil, wantErr)
	tg.EXPECT().MarkTaskAsProcessed(gomock.Any()).Times(0)

	cg := commandgraph.New()
	gen := graphgen.New(cg, 1)

	err := gen.Run(mockTestContext(), tg)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}
