package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wekeepgrowing/semo-payment-method/internal/adapter/event"
	domainEvent "github.com/wekeepgrowing/semo-payment-method/internal/domain/event"
	"github.com/wekeepgrowing/semo-payment-method/pkg/messaging"
)

func watchCmd() *cobra.Command {
	var (
		redisAddr string
		password  string
		db        int
		channel   string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream provisioning events from Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := messaging.NewRedisClient(ctx, messaging.RedisOptions{
				Addr:     redisAddr,
				Password: password,
				DB:       db,
			})
			if err != nil {
				return err
			}
			defer client.Close()

			messages, err := client.Subscribe(ctx, channel)
			if err != nil {
				return err
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case msg, ok := <-messages:
					if !ok {
						return nil
					}
					var evt domainEvent.ProvisioningEvent
					if err := msg.Decode(&evt); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "skipping undecodable message: %v\n", err)
						continue
					}
					printEvent(cmd.OutOrStdout(), evt)
				}
			}
		},
	}

	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address")
	cmd.Flags().StringVar(&password, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&db, "redis-db", 0, "Redis database")
	cmd.Flags().StringVarP(&channel, "channel", "c", event.DefaultChannel, "Pub/Sub channel")

	return cmd
}

func printEvent(w io.Writer, evt domainEvent.ProvisioningEvent) {
	ts := evt.OccurredAt.Format("2006-01-02T15:04:05Z07:00")
	switch evt.Type {
	case domainEvent.TypePaymentMethodProvisioned:
		fmt.Fprintf(w, "%s provisioned attempt=%s customer=%s payment_method=%s setup_intent=%s\n",
			ts, evt.AttemptID, evt.CustomerID, evt.PaymentSourceID, evt.SetupIntentID)
	case domainEvent.TypeProvisioningFailed:
		fmt.Fprintf(w, "%s failed attempt=%s stage=%s kind=%s customer=%s\n",
			ts, evt.AttemptID, evt.FailedStage, evt.FailureKind, evt.CustomerID)
	default:
		fmt.Fprintf(w, "%s %s attempt=%s\n", ts, evt.Type, evt.AttemptID)
	}
}
