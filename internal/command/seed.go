package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	"github.com/sakif/coursehub/internal/model"
	"github.com/sakif/coursehub/internal/service"
)

// Shape of the generated demo data.
const (
	minDescriptionSentences  = 2
	maxExtraDescSentences    = 4
	minSentenceWords         = 6
	maxExtraSentenceWords    = 10
	estimatedTimeProbability = 0.7
	materialsProbability     = 0.5
	maxMaterials             = 5
	seedPasswordLength       = 12
)

func seedCommand() *cobra.Command {
	var (
		numUsers   int
		numCourses int
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo users and courses",
		Long: "Registers --users fake users and spreads --courses fake courses between them.\n" +
			"The generated credentials are printed so the demo accounts can sign in.\n" +
			"The same --seed always generates the same data.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			if numUsers < 1 {
				return errors.New("--users must be at least 1")
			}
			if numCourses < 0 {
				return errors.New("--courses must not be negative")
			}

			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			svc, err := openServices(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := svc.db.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			s := &seeder{
				faker:   gofakeit.New(seed),
				users:   svc.users,
				courses: svc.courses,
			}
			creds, err := s.run(cmd.Context(), numUsers, numCourses)
			if err != nil {
				return err
			}

			printCredentials(cmd.OutOrStdout(), creds)
			logger.InfoContext(cmd.Context(), "seeded database",
				slog.Int("users", numUsers),
				slog.Int("courses", numCourses),
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&numUsers, "users", 3, "number of users to create")
	cmd.Flags().IntVar(&numCourses, "courses", 10, "number of courses to create")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed, 0 picks a random one")
	return cmd
}

// credential is a seeded account, with its plaintext password.
type credential struct {
	user     *model.User
	password string
}

type seeder struct {
	faker   *gofakeit.Faker
	users   *service.UserService
	courses *service.CourseService
}

// run registers numUsers users, then creates numCourses courses assigned to
// them round-robin. Everything goes through the services, so the data obeys
// the same rules as data created over HTTP.
func (s *seeder) run(ctx context.Context, numUsers, numCourses int) ([]credential, error) {
	creds := make([]credential, 0, numUsers)
	for i := range numUsers {
		c, err := s.user(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("seeding user %d: %w", i+1, err)
		}
		creds = append(creds, c)
	}

	for i := range numCourses {
		owner := creds[i%len(creds)].user
		if _, err := s.courses.Create(ctx, owner, s.course()); err != nil {
			return nil, fmt.Errorf("seeding course %d: %w", i+1, err)
		}
	}
	return creds, nil
}

func (s *seeder) user(ctx context.Context, index int) (credential, error) {
	first, last := s.faker.FirstName(), s.faker.LastName()
	// The index keeps addresses unique even when the faker repeats a name.
	email := fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), index+1)
	password := s.faker.Password(true, true, true, false, false, seedPasswordLength)

	user, err := s.users.Register(ctx, service.RegisterInput{
		FirstName:       first,
		LastName:        last,
		EmailAddress:    email,
		Password:        password,
		PasswordConfirm: password,
	})
	if err != nil {
		return credential{}, err
	}
	return credential{user: user, password: password}, nil
}

func (s *seeder) course() service.CourseInput {
	f := s.faker

	title := fmt.Sprintf("%s %s for %s",
		capitalize(f.Adjective()), capitalize(f.Noun()), capitalize(f.JobTitle()+"s"))

	sentences := make([]string, minDescriptionSentences+f.IntN(maxExtraDescSentences))
	for i := range sentences {
		sentences[i] = f.Sentence(minSentenceWords + f.IntN(maxExtraSentenceWords))
	}

	in := service.CourseInput{
		Title:       title,
		Description: strings.Join(sentences, " "),
	}
	if f.Float64() < estimatedTimeProbability {
		hours := fmt.Sprintf("%d hours", 1+f.IntN(40))
		in.EstimatedTime = &hours
	}
	if f.Float64() < materialsProbability {
		items := make([]string, 1+f.IntN(maxMaterials))
		for i := range items {
			items[i] = "* " + capitalize(f.Noun())
		}
		materials := strings.Join(items, "\n")
		in.MaterialsNeeded = &materials
	}
	return in
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func printCredentials(w io.Writer, creds []credential) {
	fmt.Fprintln(w, "seeded accounts (emailAddress / password):")
	for _, c := range creds {
		fmt.Fprintf(w, "  %s / %s\n", c.user.EmailAddress, c.password)
	}
}
