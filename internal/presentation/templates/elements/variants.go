package templates

import "github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"

const (
	buttonBaseClasses = "px-4 py-2 rounded-md font-medium transition-colors disabled:opacity-50"
	rowActionBase     = "px-2 py-1 rounded text-xs font-medium transition-colors"
	inputClasses      = "w-full px-3 py-2 border border-gray-300 rounded-md focus:outline-none focus:ring-2 focus:ring-blue-500"
	checkClasses      = "h-4 w-4 text-blue-600 focus:ring-blue-500 border-gray-300 rounded"
	cardClasses       = "bg-white shadow-sm rounded-lg overflow-hidden border border-gray-200"
	cardHeaderClasses = "px-6 py-4 border-b border-gray-200"
	cardTitleClasses  = "text-lg font-medium text-gray-900"
	submitClasses     = "w-full px-4 py-2 bg-blue-600 text-white rounded-md hover:bg-blue-700 transition-colors disabled:opacity-50 mt-4"
)

// ButtonVariantClasses maps a button variant to its classes; unknown
// variants fall back to primary.
func ButtonVariantClasses(variant string) string {
	switch variant {
	case "secondary":
		return buttonBaseClasses + " bg-gray-200 text-gray-900 hover:bg-gray-300"
	case "outline":
		return buttonBaseClasses + " border border-gray-300 text-gray-700 hover:bg-gray-50"
	case "danger":
		return buttonBaseClasses + " bg-red-600 text-white hover:bg-red-700"
	default:
		return buttonBaseClasses + " bg-blue-600 text-white hover:bg-blue-700"
	}
}

// RowActionClasses maps a row action variant to its classes.
func RowActionClasses(variant string) string {
	switch variant {
	case "secondary":
		return rowActionBase + " bg-gray-100 text-gray-700 hover:bg-gray-200"
	case "outline":
		return rowActionBase + " border border-gray-300 text-gray-700 hover:bg-gray-50"
	case "danger":
		return rowActionBase + " bg-red-100 text-red-700 hover:bg-red-200"
	default:
		return rowActionBase + " bg-blue-100 text-blue-700 hover:bg-blue-200"
	}
}

// StatusClasses colours an inline action status.
func StatusClasses(status rendering.ActionStatus) string {
	switch status {
	case rendering.StatusSuccess:
		return "ml-2 text-sm text-green-600"
	case rendering.StatusError:
		return "ml-2 text-sm text-red-600"
	default:
		return "ml-2 text-sm text-gray-500"
	}
}

// BannerClasses colours a form submission banner.
func BannerClasses(status rendering.ActionStatus) string {
	if status == rendering.StatusSuccess {
		return "mb-4 p-4 bg-green-50 text-green-700 rounded"
	}
	return "mb-4 p-4 bg-red-50 text-red-700 rounded"
}
