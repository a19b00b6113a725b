package cli

import (
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/tinyjwt"
	"github.com/MrEthical07/tinyjwt/internal/detsig"
	"github.com/MrEthical07/tinyjwt/keysource"
)

func addPubkeyCommand(root *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Print the PEM public key of the configured ES256 private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.buildManager(cmd.Context())
			if err != nil {
				return err
			}
			pub, err := m.PublicKey()
			if err != nil {
				return err
			}
			der, err := x509.MarshalPKIXPublicKey(pub)
			if err != nil {
				return err
			}
			return pem.Encode(cmd.OutOrStdout(), &pem.Block{Type: "PUBLIC KEY", Bytes: der})
		},
	}
	root.AddCommand(cmd)
}

func addDeriveCommand(root *cobra.Command, a *app) {
	var (
		info     string
		activate bool
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive an ES256 private key from a master secret read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			master, err := readSecret(cmd, "master secret: ")
			if err != nil {
				return err
			}
			key, err := keysource.DerivePrivateKey(master, []byte(info))
			if err != nil {
				return fmt.Errorf("%w: %v", errInvalidInput, err)
			}

			if !activate {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(key))
				return err
			}
			return a.activate(cmd, keysource.KindPrivateKey, "", key, ttl)
		},
	}
	cmd.Flags().StringVar(&info, "info", "tinyjwt-es256", "HKDF info label")
	cmd.Flags().BoolVar(&activate, "activate", false, "store the key in Redis as the active private key instead of printing it")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "expiry of the stored key (0 keeps it)")
	root.AddCommand(cmd)
}

func addKeyCommand(root *cobra.Command, a *app) {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Manage key material stored in Redis",
	}

	var (
		kindName string
		kid      string
		ttl      time.Duration
	)
	activateCmd := &cobra.Command{
		Use:   "activate",
		Short: "Store key material read from stdin and make it active",
		Long: `activate reads the material from stdin (or a no-echo prompt on a terminal).
Shared secrets are stored as given; private keys are read as hex.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := keysource.ParseKind(kindName)
			if err != nil {
				return fmt.Errorf("%w: %v", errInvalidInput, err)
			}
			material, err := readSecret(cmd, kind.String()+": ")
			if err != nil {
				return err
			}
			if kind == keysource.KindPrivateKey {
				material, err = hex.DecodeString(strings.TrimSpace(string(material)))
				if err != nil || detsig.ValidatePrivateKey(material) != nil {
					return tinyjwt.ErrInvalidPrivateKey
				}
			}
			return a.activate(cmd, kind, kid, material, ttl)
		},
	}
	activateCmd.Flags().StringVar(&kindName, "kind", "secret", "key kind (secret|private)")
	activateCmd.Flags().StringVar(&kid, "kid", "", "key ID (random when empty)")
	activateCmd.Flags().DurationVar(&ttl, "ttl", 0, "expiry of the stored key (0 keeps it)")

	keyCmd.AddCommand(activateCmd)
	root.AddCommand(keyCmd)
}

// activate stores material in Redis as the active key and prints its ID.
func (a *app) activate(cmd *cobra.Command, kind keysource.Kind, kid string, material []byte, ttl time.Duration) error {
	store, done := a.keyStore()
	defer done()
	if store == nil {
		return fmt.Errorf("%w: redis address not configured", errInvalidInput)
	}
	if kid == "" {
		kid = keysource.NewKeyID()
	}

	prev, err := store.Activate(cmd.Context(), kind, kid, material, ttl)
	if err != nil {
		return err
	}
	a.logger.Info().Stringer("kind", kind).Str("kid", kid).Str("previous", prev).Msg("key activated")
	_, err = fmt.Fprintln(cmd.OutOrStdout(), kid)
	return err
}
