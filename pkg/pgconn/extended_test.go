// Copyright 2026 Supabase, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pgconn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgwire/pgwire/pkg/frame"
	"github.com/pgwire/pgwire/pkg/message"
	"github.com/pgwire/pgwire/pkg/protocol"
)

func TestParseParameterDescriptionEmpty(t *testing.T) {
	body := message.NewWriter()
	body.WriteInt16(0)
	types, err := parseParameterDescription(body.Bytes())
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestParseParameterDescriptionWithTypes(t *testing.T) {
	body := message.NewWriter()
	body.WriteInt16(2)
	body.WriteUint32(23)
	body.WriteUint32(25)
	types, err := parseParameterDescription(body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []uint32{23, 25}, types)
}

func TestParseParameterDescriptionTruncated(t *testing.T) {
	body := message.NewWriter()
	body.WriteInt16(1)
	_, err := parseParameterDescription(body.Bytes())
	assert.Error(t, err)
}

func TestParseSendsParseAndSyncThenWaitsForParseComplete(t *testing.T) {
	c, server := newPipeConn(t)

	done := make(chan error, 1)
	go func() { done <- c.Parse(context.Background(), "stmt1", "SELECT 1", nil) }()

	r := frame.NewReader(server)
	parseFrame, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.MsgParse), parseFrame.Kind)

	syncFrame, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.MsgSync), syncFrame.Kind)

	w := frame.NewWriter(server)
	require.NoError(t, w.WriteFrame(protocol.MsgParseComplete, nil))
	rfq := message.NewWriter()
	rfq.WriteByte('I')
	require.NoError(t, w.WriteFrame(protocol.MsgReadyForQuery, rfq.Bytes()))
	require.NoError(t, w.Flush())

	require.NoError(t, <-done)
}

func TestDescribeStatementParsesParamTypesAndFields(t *testing.T) {
	c, server := newPipeConn(t)

	resultCh := make(chan *ParameterInfo, 1)
	errCh := make(chan error, 1)
	go func() {
		info, err := c.DescribeStatement(context.Background(), "stmt1")
		resultCh <- info
		errCh <- err
	}()

	r := frame.NewReader(server)
	describeFrame, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.MsgDescribe), describeFrame.Kind)

	syncFrame, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.MsgSync), syncFrame.Kind)

	w := frame.NewWriter(server)

	paramDesc := message.NewWriter()
	paramDesc.WriteInt16(1)
	paramDesc.WriteUint32(23)
	require.NoError(t, w.WriteFrame(protocol.MsgParameterDescription, paramDesc.Bytes()))

	rowDesc := message.NewWriter()
	rowDesc.WriteInt16(0)
	require.NoError(t, w.WriteFrame(protocol.MsgRowDescription, rowDesc.Bytes()))

	rfq := message.NewWriter()
	rfq.WriteByte('I')
	require.NoError(t, w.WriteFrame(protocol.MsgReadyForQuery, rfq.Bytes()))
	require.NoError(t, w.Flush())

	require.NoError(t, <-errCh)
	info := <-resultCh
	assert.Equal(t, []uint32{23}, info.ParamTypes)
	assert.Empty(t, info.Fields)
}
