package shared

// Core platform permissions.
const (
	PermUsersView = "users.view"
	PermUsersEdit = "users.edit"
)

// Master data permissions.
const (
	PermProductView    = "masterdata.product.view"
	PermProductEdit    = "masterdata.product.edit"
	PermSupplierView   = "masterdata.supplier.view"
	PermSupplierEdit   = "masterdata.supplier.edit"
	PermDepartmentView = "masterdata.department.view"
	PermDepartmentEdit = "masterdata.department.edit"
)

// Inventory permissions.
const (
	PermInventoryView = "inventory.view"
	PermInventoryEdit = "inventory.edit"
)

// Sales order permissions.
const (
	PermSalesOrderView    = "sales.order.view"
	PermSalesOrderCreate  = "sales.order.create"
	PermSalesOrderEdit    = "sales.order.edit"
	PermSalesOrderConfirm = "sales.order.confirm"
	PermSalesOrderCancel  = "sales.order.cancel"
	PermSalesOrderRemit   = "sales.order.remit"
)

// Preparation task permissions.
const (
	PermPrepTaskView   = "preparation.task.view"
	PermPrepTaskCreate = "preparation.task.create"
	PermPrepTaskEdit   = "preparation.task.edit"
	PermPrepTaskPick   = "preparation.task.pick"
	PermPrepTaskReview = "preparation.task.review"
	PermPrepTaskCancel = "preparation.task.cancel"
	PermPrepTaskDelete = "preparation.task.delete"
	PermPrepTaskExport = "preparation.task.export"
)

// Notification permissions.
const (
	PermNotificationView = "notifications.view"
)

// WarehouseScopes lists the permissions of the warehouse back office.
func WarehouseScopes() []string {
	return []string{
		PermUsersView, PermUsersEdit,
		PermProductView, PermProductEdit,
		PermSupplierView, PermSupplierEdit,
		PermDepartmentView, PermDepartmentEdit,
		PermInventoryView, PermInventoryEdit,
		PermSalesOrderView, PermSalesOrderCreate, PermSalesOrderEdit,
		PermSalesOrderConfirm, PermSalesOrderCancel, PermSalesOrderRemit,
		PermPrepTaskView, PermPrepTaskCreate, PermPrepTaskEdit,
		PermPrepTaskPick, PermPrepTaskReview, PermPrepTaskCancel,
		PermPrepTaskDelete, PermPrepTaskExport,
		PermNotificationView,
	}
}
