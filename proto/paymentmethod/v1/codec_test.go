package paymentmethodv1_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"

	pb "github.com/wekeepgrowing/semo-payment-method/proto/paymentmethod/v1"
)

func TestJSONCodec_KeepsLongCardNumbers(t *testing.T) {
	codec := encoding.GetCodec(pb.CodecName)
	require.NotNil(t, codec)

	var req pb.ProvisionPaymentMethodRequest
	err := codec.Unmarshal([]byte(`{"name":"Ada","customer":{},"card":{"number":6011000990139424123,"exp_month":12}}`), &req)

	require.NoError(t, err)
	assert.Equal(t, json.Number("6011000990139424123"), req.Card["number"])
	assert.Equal(t, json.Number("12"), req.Card["exp_month"])
	assert.Equal(t, map[string]interface{}{}, req.Customer)
}

func TestJSONCodec_RoundTrip(t *testing.T) {
	codec := encoding.GetCodec(pb.CodecName)

	data, err := codec.Marshal(&pb.ProvisionPaymentMethodReply{Message: "Hello Ada", CustomerID: "cus_1"})
	require.NoError(t, err)

	var reply pb.ProvisionPaymentMethodReply
	require.NoError(t, codec.Unmarshal(data, &reply))
	assert.Equal(t, "Hello Ada", reply.Message)
	assert.Equal(t, "cus_1", reply.CustomerID)
}

func TestJSONCodec_RejectsEmptyMessage(t *testing.T) {
	var req pb.ProvisionPaymentMethodRequest

	assert.Error(t, encoding.GetCodec(pb.CodecName).Unmarshal(nil, &req))
}
