package core

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/castelan/accountd/src/accountd/account"
	"github.com/castelan/accountd/src/accountd/db"
	"github.com/castelan/accountd/src/common/cli"
)

// bootstrapCmd creates the first administrator account without going through
// the HTTP API. Useful on a fresh install, before any admin exists to approve
// anything.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create an administrator account",
	Long: `Creates an administrator account directly in the database.

The password is read from the terminal without echo when not supplied via
the --password flag. The database is persisted to disk before the command
returns.`,
	RunE: runBootstrap,
}

func init() {
	bootstrapCmd.Flags().StringP("email", "e", "", "Administrator email address")
	bootstrapCmd.Flags().StringP("name", "n", "", "Administrator display name")
	bootstrapCmd.Flags().String("password", "", "Administrator password (prompted when omitted)")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")
	password, _ := cmd.Flags().GetString("password")

	if email == "" {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(input)
	}
	if email == "" {
		return fmt.Errorf("an email address is required")
	}

	if password == "" {
		fmt.Print("Password: ")
		bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()
		password = string(bytePassword)
	}
	if password == "" {
		return fmt.Errorf("a password is required")
	}

	dbPath := cli.GetExpandedString("database.path")
	database, err := db.New(db.Config{
		PersistPath: dbPath,
		LoadOnStart: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), viper.GetInt("security.bcrypt_cost"))
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	store := account.NewStore(database.DB())
	user := account.NewUser(email, name, string(passwordHash), account.RoleAdmin)
	if err := store.CreateUser(user); err != nil {
		return fmt.Errorf("failed to create administrator: %w", err)
	}

	if err := database.Shutdown(); err != nil {
		return fmt.Errorf("failed to persist database: %w", err)
	}

	log.Info("Administrator account created", "user_id", user.ID, "email", user.Email)
	return nil
}
