package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"gopkg.in/yaml.v3"

	pb "github.com/wekeepgrowing/semo-payment-method/proto/paymentmethod/v1"
)

func provisionCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "provision [request.yaml]",
		Short: "Provision a payment method from a YAML request file",
		Long: `Reads name, customer and card fields from a YAML file ("-" for stdin),
calls ProvisionPaymentMethod and prints the reply as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			reply, err := pb.NewPaymentMethodServiceClient(conn).ProvisionPaymentMethod(ctx, req)
			if err != nil {
				if st, ok := status.FromError(err); ok {
					return fmt.Errorf("%s: %s", st.Code(), st.Message())
				}
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(reply)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "[::1]:8080", "gRPC server address")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 60*time.Second, "Request timeout")

	return cmd
}

// loadRequest decodes a provisioning request from a YAML file or stdin.
func loadRequest(path string, stdin io.Reader) (*pb.ProvisionPaymentMethodRequest, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open request file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req pb.ProvisionPaymentMethodRequest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}

	if req.Name == "" {
		return nil, fmt.Errorf("request file: name is required")
	}
	if len(req.Card) == 0 {
		return nil, fmt.Errorf("request file: card is required")
	}
	return &req, nil
}
