// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

//go:build integration

package integration

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/clipvault/clipvault/internal/auth"
	authpg "github.com/clipvault/clipvault/internal/auth/postgres"
	"github.com/clipvault/clipvault/internal/clipboard"
	clippg "github.com/clipvault/clipvault/internal/clipboard/postgres"
	"github.com/clipvault/clipvault/internal/store"
)

// setupPostgres starts a PostgreSQL container and runs migrations.
func setupPostgres() (*store.Postgres, func(), error) {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:16-alpine",
		pgcontainer.WithDatabase("clipvault_test"),
		pgcontainer.WithUsername("clipvault"),
		pgcontainer.WithPassword("clipvault"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		return nil, nil, err
	}
	if err := migrator.Close(); err != nil {
		return nil, nil, err
	}

	db, err := store.NewPostgres(ctx, connStr)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		db.Close()
		_ = container.Terminate(ctx)
	}

	return db, cleanup, nil
}

var _ = Describe("ClipVault", Ordered, func() {
	var (
		ctx     context.Context
		db      *store.Postgres
		cleanup func()
		authSvc *auth.Service
		clips   *clipboard.Service
	)

	BeforeAll(func() {
		ctx = context.Background()
		var err error
		db, cleanup, err = setupPostgres()
		Expect(err).NotTo(HaveOccurred())

		authSvc, err = auth.NewService(
			authpg.NewUserRepository(db.Pool()),
			auth.NewSessionRegistry(),
			auth.NewArgon2idHasher(),
		)
		Expect(err).NotTo(HaveOccurred())

		clips, err = clipboard.NewService(clippg.NewItemRepository(db.Pool()))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if cleanup != nil {
			cleanup()
		}
	})

	Describe("account lifecycle", func() {
		It("signs up, logs in, and authenticates", func() {
			user, token, err := authSvc.Signup(ctx, "Alice", "alice@example.com", "password123", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(BeNumerically(">", 0))
			Expect(token).NotTo(BeEmpty())

			resolved, err := authSvc.Authenticate(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(resolved.Email).To(Equal("alice@example.com"))

			_, loginToken, err := authSvc.Login(ctx, "alice@example.com", "password123")
			Expect(err).NotTo(HaveOccurred())
			Expect(loginToken).NotTo(Equal(token))
		})

		It("rejects a duplicate email", func() {
			_, _, err := authSvc.Signup(ctx, "Mallory", "alice@example.com", "different", nil)
			Expect(err).To(MatchError(auth.ErrDuplicateEmail))
		})

		It("rejects a wrong password", func() {
			_, _, err := authSvc.Login(ctx, "alice@example.com", "wrong")
			Expect(err).To(HaveOccurred())
		})

		It("invalidates the session on logout", func() {
			_, token, err := authSvc.Login(ctx, "alice@example.com", "password123")
			Expect(err).NotTo(HaveOccurred())

			authSvc.Logout(token)
			_, err = authSvc.Authenticate(ctx, token)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("clipboard ownership", func() {
		var alice, bob *auth.User

		BeforeAll(func() {
			var err error
			alice, _, err = authSvc.Login(ctx, "alice@example.com", "password123")
			Expect(err).NotTo(HaveOccurred())
			bob, _, err = authSvc.Signup(ctx, "Bob", "bob@example.com", "hunter22222", nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("scopes items to their owner", func() {
			item, err := clips.Create(ctx, alice.ID, "alice's secret")
			Expect(err).NotTo(HaveOccurred())

			_, err = clips.Get(ctx, bob.ID, item.ID)
			Expect(err).To(MatchError(clipboard.ErrNotFound))

			got, err := clips.Get(ctx, alice.ID, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Content).To(Equal("alice's secret"))
		})

		It("orders the listing by most recent update", func() {
			first, err := clips.Create(ctx, bob.ID, "first")
			Expect(err).NotTo(HaveOccurred())
			second, err := clips.Create(ctx, bob.ID, "second")
			Expect(err).NotTo(HaveOccurred())

			_, err = clips.Update(ctx, bob.ID, first.ID, "first updated")
			Expect(err).NotTo(HaveOccurred())

			items, err := clips.List(ctx, bob.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(items)).To(BeNumerically(">=", 2))
			Expect(items[0].ID).To(Equal(first.ID))
			Expect(items[1].ID).To(Equal(second.ID))
		})

		It("cannot update or delete someone else's item", func() {
			item, err := clips.Create(ctx, alice.ID, "mine")
			Expect(err).NotTo(HaveOccurred())

			_, err = clips.Update(ctx, bob.ID, item.ID, "stolen")
			Expect(err).To(MatchError(clipboard.ErrNotFound))
			Expect(clips.Delete(ctx, bob.ID, item.ID)).To(MatchError(clipboard.ErrNotFound))
		})
	})

	Describe("share codes", func() {
		var owner *auth.User

		BeforeAll(func() {
			var err error
			owner, _, err = authSvc.Login(ctx, "alice@example.com", "password123")
			Expect(err).NotTo(HaveOccurred())
		})

		It("publishes and resolves a code without authentication context", func() {
			item, err := clips.Create(ctx, owner.ID, "shared content")
			Expect(err).NotTo(HaveOccurred())

			code, err := clips.Share(ctx, owner.ID, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(HaveLen(clipboard.ShareCodeLength))

			view, err := clips.Resolve(ctx, code)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Content).To(Equal("shared content"))
			Expect(view.OwnerName).To(Equal("Alice"))
		})

		It("returns the same code when shared again", func() {
			item, err := clips.Create(ctx, owner.ID, "stable code")
			Expect(err).NotTo(HaveOccurred())

			first, err := clips.Share(ctx, owner.ID, item.ID)
			Expect(err).NotTo(HaveOccurred())
			second, err := clips.Share(ctx, owner.ID, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("revokes resolution on unshare", func() {
			item, err := clips.Create(ctx, owner.ID, "fleeting")
			Expect(err).NotTo(HaveOccurred())

			code, err := clips.Share(ctx, owner.ID, item.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(clips.Unshare(ctx, owner.ID, item.ID)).To(Succeed())
			_, err = clips.Resolve(ctx, code)
			Expect(err).To(HaveOccurred())
		})

		It("assigns distinct codes to items shared concurrently", func() {
			const n = 16

			ids := make([]int64, n)
			for i := range ids {
				item, err := clips.Create(ctx, owner.ID, "concurrent item")
				Expect(err).NotTo(HaveOccurred())
				ids[i] = item.ID
			}

			var wg sync.WaitGroup
			codes := make([]string, n)
			errs := make([]error, n)
			for i, id := range ids {
				wg.Add(1)
				go func(i int, id int64) {
					defer wg.Done()
					codes[i], errs[i] = clips.Share(ctx, owner.ID, id)
				}(i, id)
			}
			wg.Wait()

			seen := map[string]bool{}
			for i := range codes {
				Expect(errs[i]).NotTo(HaveOccurred())
				Expect(seen[codes[i]]).To(BeFalse(), "duplicate code %s", codes[i])
				seen[codes[i]] = true
			}
		})

		It("settles concurrent shares of one item on a single code", func() {
			item, err := clips.Create(ctx, owner.ID, "contested")
			Expect(err).NotTo(HaveOccurred())

			const n = 8
			var wg sync.WaitGroup
			codes := make([]string, n)
			errs := make([]error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					codes[i], errs[i] = clips.Share(ctx, owner.ID, item.ID)
				}(i)
			}
			wg.Wait()

			for i := 0; i < n; i++ {
				Expect(errs[i]).NotTo(HaveOccurred())
				Expect(codes[i]).To(Equal(codes[0]))
			}
		})

		It("deleting a shared item invalidates its code", func() {
			item, err := clips.Create(ctx, owner.ID, "doomed")
			Expect(err).NotTo(HaveOccurred())
			code, err := clips.Share(ctx, owner.ID, item.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(clips.Delete(ctx, owner.ID, item.ID)).To(Succeed())
			_, err = clips.Resolve(ctx, code)
			Expect(err).To(HaveOccurred())
		})
	})
})
