package scout

// Annotation types read from UI-model classes.
const (
	FormDataAnnotation   = "org.eclipse.scout.rt.client.dto.FormData"
	PageDataAnnotation   = "org.eclipse.scout.rt.client.dto.PageData"
	ColumnDataAnnotation = "org.eclipse.scout.rt.client.dto.ColumnData"
	ReplaceAnnotation    = "org.eclipse.scout.rt.platform.Replace"
	OrderAnnotation      = "org.eclipse.scout.rt.platform.Order"
)

// Marker annotation attributes.
const (
	AttrValue                    = "value"
	AttrSdkCommand               = "sdkCommand"
	AttrDefaultSubtypeSdkCommand = "defaultSubtypeSdkCommand"
	AttrGenericOrdinal           = "genericOrdinal"
	AttrInterfaces               = "interfaces"
)

// UI-model base types used to classify model nodes.
const (
	IForm           = "org.eclipse.scout.rt.client.ui.form.IForm"
	IFormField      = "org.eclipse.scout.rt.client.ui.form.fields.IFormField"
	ICompositeField = "org.eclipse.scout.rt.client.ui.form.fields.ICompositeField"
	IValueField     = "org.eclipse.scout.rt.client.ui.form.fields.IValueField"
	ITableField     = "org.eclipse.scout.rt.client.ui.form.fields.tablefield.ITableField"
	ITable          = "org.eclipse.scout.rt.client.ui.basic.table.ITable"
	IColumn         = "org.eclipse.scout.rt.client.ui.basic.table.columns.IColumn"
	IPageWithTable  = "org.eclipse.scout.rt.client.ui.desktop.outline.pages.IPageWithTable"

	AbstractValueField = "org.eclipse.scout.rt.client.ui.form.fields.AbstractValueField"
	AbstractColumn     = "org.eclipse.scout.rt.client.ui.basic.table.columns.AbstractColumn"
)

// Data types the generated classes extend or reference.
const (
	AbstractFormData           = "org.eclipse.scout.rt.shared.data.form.AbstractFormData"
	AbstractFormFieldData      = "org.eclipse.scout.rt.shared.data.form.fields.AbstractFormFieldData"
	AbstractValueFieldData     = "org.eclipse.scout.rt.shared.data.form.fields.AbstractValueFieldData"
	AbstractTableFieldBeanData = "org.eclipse.scout.rt.shared.data.form.fields.tablefield.AbstractTableFieldBeanData"
	AbstractTablePageData      = "org.eclipse.scout.rt.shared.data.page.AbstractTablePageData"
	AbstractTableRowData       = "org.eclipse.scout.rt.shared.data.basic.table.AbstractTableRowData"
	AbstractPropertyData       = "org.eclipse.scout.rt.shared.data.form.properties.AbstractPropertyData"

	Generated = "javax.annotation.Generated"
)

// GeneratedComment is the marker comment written into every generated type.
const GeneratedComment = "This class is auto generated by the Scout SDK. No manual modifications recommended."
