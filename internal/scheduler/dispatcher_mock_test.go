package scheduler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zeta1999/celerity-runtime/internal/commandgraph"
	"github.com/zeta1999/celerity-runtime/internal/ids"
	"github.com/zeta1999/celerity-runtime/internal/mocks"
	"github.com/zeta1999/celerity-runtime/internal/region"
	"github.com/zeta1999/celerity-runtime/internal/scheduler"
)

// TestDispatcher_SendFailurePropagates uses a gomock-generated Transport
// double to assert a failed remote send aborts Dispatch with that error.
func TestDispatcher_SendFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mocks.NewMockTransport(ctrl)

	wantErr := errors.New("connection reset")
	tr.EXPECT().Send(gomock.Any(), ids.NodeID(1), gomock.Any(), gomock.Any()).Return(wantErr)

	cg := commandgraph.New()
	cg.CreateCompute(ids.NodeID(1), 1, region.Subrange1D(0, 10, 10))

	d := scheduler.New(tr)
	err := d.Dispatch(context.Background(), cg, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}
