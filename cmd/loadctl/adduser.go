package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/faculty-loading-api/internal/models"
	"github.com/noah-isme/faculty-loading-api/internal/repository"
	"github.com/noah-isme/faculty-loading-api/internal/service"
)

var (
	emailFlag     string
	passwordFlag  string
	firstNameFlag string
	lastNameFlag  string
	roleFlag      string
	rankFlag      string
	pnuFlag       string
)

var addUserCmd = &cobra.Command{
	Use:   "adduser",
	Short: "Adds a login account, and a faculty member record for faculty",
	Long: `Prompts for the password when --password is not given. FACULTY accounts
also get a faculty member record with the given --rank.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, member, err := buildAccount(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := createAccount(cmd.Context(), repository.NewUserRepository(a.db), repository.NewFacultyMemberRepository(a.db), user, member); err != nil {
			return err
		}
		a.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
		cmd.Printf("added %s (%s)\n", user.Email, user.Role)
		return nil
	},
}

type userCreator interface {
	Create(ctx context.Context, user *models.User) error
}

type facultyCreator interface {
	Create(ctx context.Context, member *models.FacultyMember) error
}

// buildAccount validates flags and reads the password when needed.
func buildAccount(in io.Reader, out io.Writer) (*models.User, *models.FacultyMember, error) {
	email := strings.TrimSpace(strings.ToLower(emailFlag))
	if email == "" {
		return nil, nil, errors.New("--email is required")
	}
	role := models.UserRole(strings.ToUpper(roleFlag))
	switch role {
	case models.RoleDean, models.RoleAssociateDean, models.RoleClerk, models.RoleFaculty:
	default:
		return nil, nil, fmt.Errorf("unknown role %q", roleFlag)
	}

	var member *models.FacultyMember
	if role == models.RoleFaculty {
		rank := models.FacultyRank(strings.ToUpper(rankFlag))
		if !rank.Valid() {
			return nil, nil, fmt.Errorf("unknown rank %q", rankFlag)
		}
		member = &models.FacultyMember{
			FirstName: firstNameFlag,
			LastName:  lastNameFlag,
			PnuID:     pnuFlag,
			Rank:      rank,
		}
	}

	password := passwordFlag
	if password == "" {
		var err error
		if password, err = promptPassword(in, out); err != nil {
			return nil, nil, err
		}
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstNameFlag,
		LastName:     lastNameFlag,
		Role:         role,
		Active:       true,
	}
	return user, member, nil
}

func createAccount(ctx context.Context, users userCreator, faculty facultyCreator, user *models.User, member *models.FacultyMember) error {
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	if member == nil {
		return nil
	}
	member.UserID = user.ID
	return faculty.Create(ctx, member)
}

func promptPassword(in io.Reader, out io.Writer) (string, error) {
	reader := bufio.NewReader(in)
	read := func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		defer fmt.Fprintln(out)
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			b, err := term.ReadPassword(int(f.Fd()))
			return string(b), err
		}
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	password, err := read("Enter password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	confirm, err := read("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("read password confirmation: %w", err)
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

func init() {
	rootCmd.AddCommand(addUserCmd)
	addUserCmd.Flags().StringVarP(&emailFlag, "email", "e", "", "login email")
	addUserCmd.Flags().StringVarP(&passwordFlag, "password", "p", "", "password, prompted when empty")
	addUserCmd.Flags().StringVar(&firstNameFlag, "first-name", "", "first name")
	addUserCmd.Flags().StringVar(&lastNameFlag, "last-name", "", "last name")
	addUserCmd.Flags().StringVarP(&roleFlag, "role", "r", string(models.RoleFaculty), "DEAN, ASSOCIATE_DEAN, CLERK or FACULTY")
	addUserCmd.Flags().StringVar(&rankFlag, "rank", string(models.RankInstructor), "faculty rank for FACULTY accounts")
	addUserCmd.Flags().StringVar(&pnuFlag, "pnu", "", "institutional employee number for FACULTY accounts")
}
