package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsForRole(t *testing.T) {
	t.Run("reader gets the storefront set", func(t *testing.T) {
		perms := PermissionsForRole(RoleReader)

		assert.Contains(t, perms, PermBooksRead)
		assert.Contains(t, perms, PermCheckout)
		assert.Contains(t, perms, PermLibraryRead)
		assert.NotContains(t, perms, PermUsersManage)
		assert.NotContains(t, perms, PermBlogWrite)
	})

	t.Run("author extends reader with blog writing", func(t *testing.T) {
		perms := PermissionsForRole(RoleAuthor)

		assert.Contains(t, perms, PermBlogWrite)
		assert.Contains(t, perms, PermBooksRead)
		assert.NotContains(t, perms, PermUsersManage)
	})

	t.Run("admin gets everything", func(t *testing.T) {
		perms := PermissionsForRole(RoleAdmin)

		assert.Contains(t, perms, PermUsersManage)
		assert.Contains(t, perms, PermOrdersManage)
		assert.Contains(t, perms, PermAnalyticsView)
		assert.Contains(t, perms, PermBooksRead)
	})

	t.Run("unknown role falls back to reader", func(t *testing.T) {
		assert.Equal(t, PermissionsForRole(RoleReader), PermissionsForRole("something-else"))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		perms := PermissionsForRole(RoleReader)
		perms[0] = "tampered"
		assert.Equal(t, PermBooksRead, PermissionsForRole(RoleReader)[0])
	})
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermUsersManage))
	assert.True(t, HasPermission(RoleReader, PermCartManage))
	assert.False(t, HasPermission(RoleReader, PermUsersManage))
	assert.False(t, HasPermission(RoleAuthor, PermPaymentsManage))
}
