// internal/domain/user/permissions.go
package user

// Permission strings in "resource.action" form, handed to the client on
// login so menus and guards render without a second round trip
const (
	PermBooksRead      = "books.read"
	PermBooksManage    = "books.manage"
	PermCartManage     = "cart.manage"
	PermCheckout       = "checkout.complete"
	PermLibraryRead    = "library.read"
	PermLibraryUpdate  = "library.update"
	PermWishlistManage = "wishlist.manage"
	PermProfileManage  = "profile.manage"
	PermBlogRead       = "blog.read"
	PermBlogWrite      = "blog.write"
	PermOrdersManage   = "orders.manage"
	PermUsersManage    = "users.manage"
	PermContentManage  = "content.manage"
	PermAnalyticsView  = "analytics.view"
	PermPaymentsManage = "payments.manage"
)

var readerPermissions = []string{
	PermBooksRead,
	PermCartManage,
	PermCheckout,
	PermLibraryRead,
	PermLibraryUpdate,
	PermWishlistManage,
	PermProfileManage,
	PermBlogRead,
}

// PermissionsForRole returns the permissions a role grants. Authors extend
// readers; admins get everything. Unknown roles fall back to reader.
func PermissionsForRole(role string) []string {
	switch role {
	case RoleAdmin:
		return append(append([]string{}, readerPermissions...),
			PermBooksManage,
			PermBlogWrite,
			PermOrdersManage,
			PermUsersManage,
			PermContentManage,
			PermAnalyticsView,
			PermPaymentsManage,
		)
	case RoleAuthor:
		return append(append([]string{}, readerPermissions...),
			PermBlogWrite,
		)
	default:
		return append([]string{}, readerPermissions...)
	}
}

// HasPermission reports whether the role grants the permission
func HasPermission(role, permission string) bool {
	for _, p := range PermissionsForRole(role) {
		if p == permission {
			return true
		}
	}
	return false
}
