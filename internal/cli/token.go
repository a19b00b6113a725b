package cli

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/tinyjwt"
)

func addEncodeCommand(root *cobra.Command, a *app) {
	var algName string
	cmd := &cobra.Command{
		Use:   "encode [payload|-]",
		Short: "Encode a payload into a signed token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := tinyjwt.ParseAlgorithm(algName)
			if err != nil {
				return err
			}
			payload, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}
			m, err := a.buildManager(cmd.Context())
			if err != nil {
				return err
			}

			buf := make([]byte, tinyjwt.TokenCapacity(len(payload), alg))
			n, err := m.Encode(buf, payload, alg)
			if err != nil {
				return err
			}
			a.logger.Debug().Stringer("alg", alg).Int("length", n).Msg("token encoded")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(buf[:n]))
			return err
		},
	}
	cmd.Flags().StringVarP(&algName, "alg", "a", tinyjwt.HS256.String(), "signing algorithm")
	root.AddCommand(cmd)
}

func addDecodeCommand(root *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "decode [token|-]",
		Short: "Verify a token with the configured keys and print its payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}
			token = bytes.TrimSpace(token)
			m, err := a.buildManager(cmd.Context())
			if err != nil {
				return err
			}

			size, err := tinyjwt.PayloadCapacity(token)
			if err != nil {
				return err
			}
			buf := make([]byte, size)
			n, err := m.Decode(buf, token)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(buf[:n]))
			return err
		},
	}
	root.AddCommand(cmd)
}

func addVerifyCommand(root *cobra.Command, a *app) {
	var pubPath string
	cmd := &cobra.Command{
		Use:   "verify [token|-]",
		Short: "Verify an ES256 token with a public key and print its payload",
		Long: `verify accepts any valid ES256 signature, including randomized ones from
other signers. The public key comes from --pubkey (PEM) or, when absent, is
derived from the configured private key.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}
			token = bytes.TrimSpace(token)
			m, err := a.buildManager(cmd.Context())
			if err != nil {
				return err
			}

			var pub *ecdsa.PublicKey
			if pubPath != "" {
				data, err := os.ReadFile(pubPath)
				if err != nil {
					return fmt.Errorf("read public key: %w", err)
				}
				pub, err = jwt.ParseECPublicKeyFromPEM(data)
				if err != nil {
					return fmt.Errorf("%w: public key: %v", errInvalidInput, err)
				}
			} else {
				pub, err = m.PublicKey()
				if err != nil {
					return err
				}
			}

			size, err := tinyjwt.PayloadCapacity(token)
			if err != nil {
				return err
			}
			buf := make([]byte, size)
			n, err := m.VerifyPublic(buf, token, pub)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(buf[:n]))
			return err
		},
	}
	cmd.Flags().StringVar(&pubPath, "pubkey", "", "PEM-encoded P-256 public key")
	root.AddCommand(cmd)
}

func addCapacityCommand(root *cobra.Command, _ *app) {
	var (
		algName    string
		payloadLen int
		token      string
	)
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Print the buffer size needed to encode a payload or decode a token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token != "" {
				n, err := tinyjwt.PayloadCapacity([]byte(token))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			}

			alg, err := tinyjwt.ParseAlgorithm(algName)
			if err != nil {
				return err
			}
			if payloadLen < 0 {
				return fmt.Errorf("%w: negative payload length", errInvalidInput)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tinyjwt.TokenCapacity(payloadLen, alg))
			return err
		},
	}
	cmd.Flags().StringVarP(&algName, "alg", "a", tinyjwt.HS256.String(), "signing algorithm")
	cmd.Flags().IntVarP(&payloadLen, "payload-len", "n", 0, "payload length in bytes")
	cmd.Flags().StringVar(&token, "token", "", "print the payload buffer size for this token instead")
	root.AddCommand(cmd)
}
