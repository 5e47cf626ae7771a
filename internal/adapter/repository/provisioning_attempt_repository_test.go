package repository

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeepgrowing/semo-payment-method/internal/domain/entity"
)

func TestEntityToModel(t *testing.T) {
	now := time.Now()
	id := uuid.NewString()

	tests := []struct {
		name             string
		attempt          *entity.ProvisioningAttempt
		expectedOrphaned bool
		expectedError    bool
	}{
		{
			name: "confirmed attempt",
			attempt: &entity.ProvisioningAttempt{
				ID:                id,
				State:             entity.StateSetupConfirmed,
				CustomerID:        "cus_1",
				PaymentSourceID:   "src_1",
				SetupIntentID:     "seti_1",
				SetupIntentStatus: "succeeded",
				CreatedAt:         now,
				UpdatedAt:         now,
			},
			expectedOrphaned: false,
		},
		{
			name: "failed after customer creation",
			attempt: &entity.ProvisioningAttempt{
				ID:          id,
				State:       entity.StateFailed,
				FailedStage: "attach_source",
				FailureKind: "PROCESSOR_ERROR",
				CustomerID:  "cus_1",
			},
			expectedOrphaned: true,
		},
		{
			name: "failed before customer creation",
			attempt: &entity.ProvisioningAttempt{
				ID:          id,
				State:       entity.StateFailed,
				FailedStage: "create_customer",
			},
			expectedOrphaned: false,
		},
		{
			name:          "invalid id",
			attempt:       &entity.ProvisioningAttempt{ID: "not-a-uuid"},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := entityToModel(tt.attempt)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.attempt.ID, m.ID.String())
			assert.Equal(t, string(tt.attempt.State), m.State)
			assert.Equal(t, tt.expectedOrphaned, m.OrphanedCustomer)

			back := modelToEntity(m)
			assert.Equal(t, tt.attempt.ID, back.ID)
			assert.Equal(t, tt.attempt.CustomerID, back.CustomerID)
			assert.Equal(t, tt.attempt.State, back.State)
		})
	}
}

func TestEntityToModel_TruncatesFailureMessage(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		expectedLen int
	}{
		{
			name:        "short message kept",
			message:     "Your card was declined.",
			expectedLen: len("Your card was declined."),
		},
		{
			name:        "ascii cut at limit",
			message:     strings.Repeat("x", 2*maxFailureMessageLength),
			expectedLen: maxFailureMessageLength,
		},
		{
			name:        "two byte runes",
			message:     "x" + strings.Repeat("é", maxFailureMessageLength),
			expectedLen: maxFailureMessageLength - 1,
		},
		{
			name:        "four byte runes",
			message:     strings.Repeat("💳", maxFailureMessageLength),
			expectedLen: maxFailureMessageLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := entityToModel(&entity.ProvisioningAttempt{
				ID:             uuid.NewString(),
				State:          entity.StateFailed,
				FailureMessage: tt.message,
			})

			require.NoError(t, err)
			assert.Len(t, m.FailureMessage, tt.expectedLen)
			assert.True(t, utf8.ValidString(m.FailureMessage))
			assert.True(t, strings.HasPrefix(tt.message, m.FailureMessage))
		})
	}
}
