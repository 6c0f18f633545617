// Package docs holds the OpenAPI document served at /swagger.
// Keep it in step with the handler annotations: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "API Support"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/admin/data": {
			"delete": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Deletes every business record once the confirmation phrase matches.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Delete all business data",
				"operationId": "purgeAll",
				"parameters": [
					{
						"description": "Confirmation phrase",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/admin.PurgeRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/admin.PurgeResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/customers": {
			"get": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Returns a page of customers matching the search text.",
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "List customers",
				"operationId": "listCustomers",
				"parameters": [
					{
						"type": "string",
						"description": "Name, email or phone contains",
						"name": "search",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 1,
						"description": "Page number",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 1,
						"maximum": 100,
						"description": "Page size",
						"name": "page_size",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Sort field",
						"name": "order_by",
						"in": "query"
					},
					{
						"type": "string",
						"enum": [
							"asc",
							"desc"
						],
						"description": "Sort direction",
						"name": "order_dir",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/partnerapp.CustomerResponse"
											}
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Creates a customer. The email must be unique.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "Create a new customer",
				"operationId": "createCustomer",
				"parameters": [
					{
						"description": "Customer creation request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/partnerapp.CustomerRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/partnerapp.CustomerResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/customers/{id}": {
			"get": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Returns a customer by ID.",
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "Get customer by ID",
				"operationId": "getCustomerById",
				"parameters": [
					{
						"type": "integer",
						"description": "Customer ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/partnerapp.CustomerResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"put": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Replaces the contact fields of a customer.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "Update a customer",
				"operationId": "updateCustomer",
				"parameters": [
					{
						"type": "integer",
						"description": "Customer ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Customer update request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/partnerapp.CustomerRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/partnerapp.CustomerResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Deletes a customer that has no orders.",
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "Delete a customer",
				"operationId": "deleteCustomer",
				"parameters": [
					{
						"type": "integer",
						"description": "Customer ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/dashboard": {
			"get": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Returns record counts, orders by status and revenue.",
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Get the dashboard summary",
				"operationId": "getDashboard",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/admin.DashboardSummaryResponse"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/employees": {
			"get": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Returns a page of employees.",
				"produces": [
					"application/json"
				],
				"tags": [
					"employees"
				],
				"summary": "List employees",
				"operationId": "listEmployees",
				"parameters": [
					{
						"type": "string",
						"description": "Name, email or position contains",
						"name": "search",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Department",
						"name": "department",
						"in": "query"
					},
					{
						"type": "string",
						"enum": [
							"active",
							"inactive"
						],
						"description": "Status",
						"name": "status",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 1,
						"description": "Page number",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 1,
						"maximum": 100,
						"description": "Page size",
						"name": "page_size",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Sort field",
						"name": "order_by",
						"in": "query"
					},
					{
						"type": "string",
						"enum": [
							"asc",
							"desc"
						],
						"description": "Sort direction",
						"name": "order_dir",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/partnerapp.EmployeeResponse"
											}
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Creates an active employee. The email must be unique.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"employees"
				],
				"summary": "Create a new employee",
				"operationId": "createEmployee",
				"parameters": [
					{
						"description": "Employee creation request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/partnerapp.EmployeeRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/partnerapp.EmployeeResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/employees/eligible-processors": {
			"get": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Returns the active Sales employees that may process orders.",
				"produces": [
					"application/json"
				],
				"tags": [
					"employees"
				],
				"summary": "List order processors",
				"operationId": "listEligibleProcessors",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/partnerapp.EmployeeResponse"
											}
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/employees/{id}": {
			"get": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Returns an employee by ID.",
				"produces": [
					"application/json"
				],
				"tags": [
					"employees"
				],
				"summary": "Get employee by ID",
				"operationId": "getEmployeeById",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Employee ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/partnerapp.EmployeeResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"put": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Updates the contact and job fields of an employee.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"employees"
				],
				"summary": "Update an employee",
				"operationId": "updateEmployee",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Employee ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Employee update request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/partnerapp.EmployeeRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/partnerapp.EmployeeResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Deletes an employee that processed no orders.",
				"produces": [
					"application/json"
				],
				"tags": [
					"employees"
				],
				"summary": "Delete an employee",
				"operationId": "deleteEmployee",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Employee ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/employees/{id}/profile-image": {
			"post": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Returns a presigned URL the client uploads the image to.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"employees"
				],
				"summary": "Request a profile image upload",
				"operationId": "requestProfileImageUpload",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Employee ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Image file",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/partnerapp.ProfileImageUploadRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/partnerapp.ProfileImageUploadResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"get": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Returns a presigned download URL for the profile image.",
				"produces": [
					"application/json"
				],
				"tags": [
					"employees"
				],
				"summary": "Get the profile image URL",
				"operationId": "getProfileImage",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Employee ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/partnerapp.ProfileImageResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/employees/{id}/profile-image/confirm": {
			"post": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Attaches an uploaded image to the employee.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"employees"
				],
				"summary": "Confirm a profile image upload",
				"operationId": "confirmProfileImage",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Employee ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Uploaded object",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/partnerapp.ConfirmProfileImageRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/partnerapp.EmployeeResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/employees/{id}/status": {
			"patch": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Sets the status, or toggles it when the body is empty. A failed write returns the restored employee in data.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"employees"
				],
				"summary": "Change employee status",
				"operationId": "changeEmployeeStatus",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Employee ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Target status",
						"name": "request",
						"in": "body",
						"required": false,
						"schema": {
							"$ref": "#/definitions/handler.ChangeEmployeeStatusRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/partnerapp.EmployeeResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/orders": {
			"get": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Returns a page of orders without their items.",
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "List orders",
				"operationId": "listOrders",
				"parameters": [
					{
						"type": "string",
						"enum": [
							"pending",
							"processing",
							"completed",
							"cancelled"
						],
						"description": "Status",
						"name": "status",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Customer ID",
						"name": "customer_id",
						"in": "query"
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Employee ID",
						"name": "employee_id",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 1,
						"description": "Page number",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 1,
						"maximum": 100,
						"description": "Page size",
						"name": "page_size",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Sort field",
						"name": "order_by",
						"in": "query"
					},
					{
						"type": "string",
						"enum": [
							"asc",
							"desc"
						],
						"description": "Sort direction",
						"name": "order_dir",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/tradeapp.OrderListItemResponse"
											}
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Places an order and takes stock for every item. A repeated Idempotency-Key is rejected with 409.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Place an order",
				"operationId": "createOrder",
				"parameters": [
					{
						"type": "string",
						"description": "Client-chosen key for double-submit protection",
						"name": "Idempotency-Key",
						"in": "header"
					},
					{
						"description": "Order creation request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/tradeapp.CreateOrderRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/tradeapp.OrderResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/orders/{id}": {
			"get": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Returns an order with its items.",
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Get order by ID",
				"operationId": "getOrderById",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/tradeapp.OrderResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"put": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Changes the customer, processor, status or items of an order. Stock follows item changes.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Update an order",
				"operationId": "updateOrder",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Order update request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/tradeapp.UpdateOrderRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/tradeapp.OrderResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Removes an order and returns its stock. With force=true items whose stock cannot be restored are reported instead of failing.",
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Delete an order",
				"operationId": "deleteOrder",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "boolean",
						"description": "Delete even when stock cannot be restored",
						"name": "force",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/tradeapp.DeleteOrderResult"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/password/login": {
			"post": {
				"description": "Checks the password for the calling client. Rejections carry the gate state in data.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"session"
				],
				"summary": "Submit the shared password",
				"operationId": "loginSession",
				"parameters": [
					{
						"description": "Password",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.LoginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/handler.SessionStatusResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"423": {
						"description": "Locked",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/password/logout": {
			"post": {
				"description": "Ends the session of the calling client and returns the new gate state.",
				"produces": [
					"application/json"
				],
				"tags": [
					"session"
				],
				"summary": "End the session",
				"operationId": "logoutSession",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/handler.SessionStatusResponse"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/password/status": {
			"get": {
				"description": "Reports whether the calling client is unlocked, locked out or idle.",
				"produces": [
					"application/json"
				],
				"tags": [
					"session"
				],
				"summary": "Get the gate state",
				"operationId": "getSessionStatus",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/handler.SessionStatusResponse"
										}
									}
								}
							]
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/products": {
			"get": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Returns a page of products with their category details.",
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "List products",
				"operationId": "listProducts",
				"parameters": [
					{
						"type": "string",
						"description": "Name contains",
						"name": "search",
						"in": "query"
					},
					{
						"type": "string",
						"enum": [
							"iPhone",
							"Charger",
							"Cable",
							"AirPod"
						],
						"description": "Category",
						"name": "category",
						"in": "query"
					},
					{
						"type": "string",
						"enum": [
							"available",
							"unavailable"
						],
						"description": "Status",
						"name": "status",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 1,
						"description": "Page number",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"minimum": 1,
						"maximum": 100,
						"description": "Page size",
						"name": "page_size",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Sort field",
						"name": "order_by",
						"in": "query"
					},
					{
						"type": "string",
						"enum": [
							"asc",
							"desc"
						],
						"description": "Sort direction",
						"name": "order_dir",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/catalogapp.ProductResponse"
											}
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Creates a product and its category details in one step.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "Create a new product",
				"operationId": "createProduct",
				"parameters": [
					{
						"description": "Product creation request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/catalogapp.CreateProductRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/catalogapp.ProductResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/products/{id}": {
			"get": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Returns a product with its category details.",
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "Get product by ID",
				"operationId": "getProductById",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Product ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/catalogapp.ProductResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"put": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Updates a product and its category details. The category cannot change.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "Update a product",
				"operationId": "updateProduct",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Product ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Product update request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/catalogapp.UpdateProductRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/catalogapp.ProductResponse"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"SessionCookie": []
					}
				],
				"description": "Deletes a product that is not part of any order.",
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "Delete a product",
				"operationId": "deleteProduct",
				"parameters": [
					{
						"type": "string",
						"format": "uuid",
						"description": "Product ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/dto.Response"
						}
					}
				}
			}
		},
		"/system/info": {
			"get": {
				"description": "Returns the service name, version and uptime.",
				"produces": [
					"application/json"
				],
				"tags": [
					"system"
				],
				"summary": "Get system info",
				"operationId": "getSystemInfo",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/handler.SystemInfoResponse"
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/system/ping": {
			"get": {
				"description": "Liveness check that touches no dependency.",
				"produces": [
					"application/json"
				],
				"tags": [
					"system"
				],
				"summary": "Ping",
				"operationId": "ping",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/dto.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/handler.PingResponse"
										}
									}
								}
							]
						}
					}
				}
			}
		}
	},
	"definitions": {
		"admin.DashboardSummaryResponse": {
			"type": "object",
			"properties": {
				"customers": {
					"type": "integer"
				},
				"employees": {
					"type": "integer"
				},
				"orders": {
					"type": "integer"
				},
				"orders_by_status": {
					"type": "object",
					"additionalProperties": {
						"type": "integer"
					}
				},
				"products": {
					"type": "integer"
				},
				"revenue": {
					"type": "string",
					"example": "999.00"
				}
			}
		},
		"admin.PurgeRequest": {
			"type": "object",
			"required": [
				"confirm"
			],
			"properties": {
				"confirm": {
					"type": "string"
				}
			}
		},
		"admin.PurgeResponse": {
			"type": "object",
			"properties": {
				"deleted": {
					"type": "object",
					"additionalProperties": {
						"type": "integer"
					}
				},
				"total": {
					"type": "integer"
				}
			}
		},
		"catalogapp.CreateProductRequest": {
			"type": "object",
			"required": [
				"category",
				"name"
			],
			"properties": {
				"category": {
					"type": "string",
					"enum": [
						"iPhone",
						"Charger",
						"Cable",
						"AirPod"
					]
				},
				"description": {
					"type": "string",
					"maxLength": 2000
				},
				"details": {
					"$ref": "#/definitions/catalogapp.ProductDetailsDTO"
				},
				"name": {
					"type": "string",
					"maxLength": 200,
					"minLength": 1
				},
				"price": {
					"type": "string",
					"example": "999.00"
				},
				"status": {
					"type": "string",
					"enum": [
						"available",
						"unavailable"
					]
				},
				"stock": {
					"type": "integer",
					"minimum": 0
				}
			}
		},
		"catalogapp.ProductDetailsDTO": {
			"type": "object",
			"properties": {
				"cable_type": {
					"type": "string"
				},
				"color": {
					"type": "string"
				},
				"is_fast_charging": {
					"type": "boolean"
				},
				"length": {
					"type": "string"
				},
				"storage": {
					"type": "string"
				},
				"wattage": {
					"type": "string"
				}
			}
		},
		"catalogapp.ProductResponse": {
			"type": "object",
			"properties": {
				"category": {
					"type": "string"
				},
				"created_at": {
					"type": "string",
					"format": "date-time"
				},
				"description": {
					"type": "string"
				},
				"details": {
					"$ref": "#/definitions/catalogapp.ProductDetailsDTO"
				},
				"id": {
					"type": "string",
					"format": "uuid"
				},
				"name": {
					"type": "string"
				},
				"orderable": {
					"type": "boolean"
				},
				"price": {
					"type": "string",
					"example": "999.00"
				},
				"status": {
					"type": "string"
				},
				"stock": {
					"type": "integer"
				},
				"updated_at": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"catalogapp.UpdateProductRequest": {
			"type": "object",
			"required": [
				"name"
			],
			"properties": {
				"category": {
					"type": "string",
					"enum": [
						"iPhone",
						"Charger",
						"Cable",
						"AirPod"
					]
				},
				"description": {
					"type": "string",
					"maxLength": 2000
				},
				"details": {
					"$ref": "#/definitions/catalogapp.ProductDetailsDTO"
				},
				"name": {
					"type": "string",
					"maxLength": 200,
					"minLength": 1
				},
				"price": {
					"type": "string",
					"example": "999.00"
				},
				"status": {
					"type": "string",
					"enum": [
						"available",
						"unavailable"
					]
				},
				"stock": {
					"type": "integer",
					"minimum": 0
				}
			}
		},
		"dto.ErrorInfo": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"details": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.ValidationDetail"
					}
				},
				"message": {
					"type": "string"
				},
				"request_id": {
					"type": "string"
				}
			}
		},
		"dto.Meta": {
			"type": "object",
			"properties": {
				"page": {
					"type": "integer"
				},
				"page_size": {
					"type": "integer"
				},
				"total": {
					"type": "integer"
				},
				"total_pages": {
					"type": "integer"
				}
			}
		},
		"dto.Response": {
			"type": "object",
			"properties": {
				"data": {},
				"error": {
					"$ref": "#/definitions/dto.ErrorInfo"
				},
				"meta": {
					"$ref": "#/definitions/dto.Meta"
				},
				"success": {
					"type": "boolean"
				}
			}
		},
		"dto.ValidationDetail": {
			"type": "object",
			"properties": {
				"field": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"tag": {
					"type": "string"
				},
				"value": {
					"type": "string"
				}
			}
		},
		"handler.ChangeEmployeeStatusRequest": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string",
					"enum": [
						"active",
						"inactive"
					]
				}
			}
		},
		"handler.LoginRequest": {
			"type": "object",
			"required": [
				"password"
			],
			"properties": {
				"password": {
					"type": "string",
					"maxLength": 256
				}
			}
		},
		"handler.PingResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"timestamp": {
					"type": "string"
				}
			}
		},
		"handler.SessionStatusResponse": {
			"type": "object",
			"properties": {
				"attempts_remaining": {
					"type": "integer"
				},
				"idle_timeout_seconds": {
					"type": "integer"
				},
				"lock_duration": {
					"type": "integer"
				},
				"locked_until": {
					"type": "string",
					"format": "date-time"
				},
				"remaining_seconds": {
					"type": "integer"
				},
				"state": {
					"type": "string"
				},
				"warning": {
					"type": "string"
				}
			}
		},
		"handler.SystemInfoResponse": {
			"type": "object",
			"properties": {
				"go_version": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"uptime": {
					"type": "string"
				},
				"version": {
					"type": "string"
				}
			}
		},
		"partnerapp.ConfirmProfileImageRequest": {
			"type": "object",
			"required": [
				"storage_key"
			],
			"properties": {
				"storage_key": {
					"type": "string"
				}
			}
		},
		"partnerapp.CustomerRequest": {
			"type": "object",
			"required": [
				"email",
				"name"
			],
			"properties": {
				"address": {
					"type": "string",
					"maxLength": 500
				},
				"email": {
					"type": "string",
					"maxLength": 200
				},
				"name": {
					"type": "string",
					"maxLength": 200,
					"minLength": 1
				},
				"phone": {
					"type": "string",
					"maxLength": 50
				}
			}
		},
		"partnerapp.CustomerResponse": {
			"type": "object",
			"properties": {
				"address": {
					"type": "string"
				},
				"created_at": {
					"type": "string",
					"format": "date-time"
				},
				"email": {
					"type": "string"
				},
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				}
			}
		},
		"partnerapp.EmployeeRequest": {
			"type": "object",
			"required": [
				"department",
				"email",
				"hire_date",
				"name",
				"position"
			],
			"properties": {
				"address": {
					"type": "string",
					"maxLength": 500
				},
				"department": {
					"type": "string"
				},
				"email": {
					"type": "string",
					"maxLength": 200
				},
				"hire_date": {
					"type": "string",
					"format": "date-time"
				},
				"name": {
					"type": "string",
					"maxLength": 200,
					"minLength": 1
				},
				"phone": {
					"type": "string",
					"maxLength": 50
				},
				"position": {
					"type": "string",
					"maxLength": 100,
					"minLength": 1
				},
				"salary": {
					"type": "string",
					"example": "999.00"
				}
			}
		},
		"partnerapp.EmployeeResponse": {
			"type": "object",
			"properties": {
				"address": {
					"type": "string"
				},
				"can_process_orders": {
					"type": "boolean"
				},
				"created_at": {
					"type": "string",
					"format": "date-time"
				},
				"department": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"has_profile_image": {
					"type": "boolean"
				},
				"hire_date": {
					"type": "string",
					"format": "date-time"
				},
				"id": {
					"type": "string",
					"format": "uuid"
				},
				"name": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"position": {
					"type": "string"
				},
				"salary": {
					"type": "string",
					"example": "999.00"
				},
				"status": {
					"type": "string"
				},
				"updated_at": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"partnerapp.ProfileImageResponse": {
			"type": "object",
			"properties": {
				"expires_at": {
					"type": "string",
					"format": "date-time"
				},
				"url": {
					"type": "string"
				}
			}
		},
		"partnerapp.ProfileImageUploadRequest": {
			"type": "object",
			"required": [
				"content_type",
				"file_name"
			],
			"properties": {
				"content_type": {
					"type": "string"
				},
				"file_name": {
					"type": "string",
					"maxLength": 255
				}
			}
		},
		"partnerapp.ProfileImageUploadResponse": {
			"type": "object",
			"properties": {
				"expires_at": {
					"type": "string",
					"format": "date-time"
				},
				"storage_key": {
					"type": "string"
				},
				"upload_url": {
					"type": "string"
				}
			}
		},
		"tradeapp.CreateOrderRequest": {
			"type": "object",
			"required": [
				"customer_id",
				"employee_id",
				"items"
			],
			"properties": {
				"customer_id": {
					"type": "integer",
					"minimum": 1
				},
				"employee_id": {
					"type": "string",
					"format": "uuid"
				},
				"items": {
					"type": "array",
					"minItems": 1,
					"items": {
						"$ref": "#/definitions/tradeapp.OrderItemInput"
					}
				}
			}
		},
		"tradeapp.DeleteOrderResult": {
			"type": "object",
			"properties": {
				"order_id": {
					"type": "string",
					"format": "uuid"
				},
				"restored_items": {
					"type": "integer"
				},
				"unrestored_items": {
					"type": "array",
					"items": {
						"type": "string",
						"format": "uuid"
					}
				}
			}
		},
		"tradeapp.OrderItemInput": {
			"type": "object",
			"required": [
				"product_id",
				"quantity"
			],
			"properties": {
				"product_id": {
					"type": "string",
					"format": "uuid"
				},
				"quantity": {
					"type": "integer",
					"minimum": 1
				}
			}
		},
		"tradeapp.OrderItemResponse": {
			"type": "object",
			"properties": {
				"created_at": {
					"type": "string",
					"format": "date-time"
				},
				"details": {
					"type": "object"
				},
				"id": {
					"type": "string",
					"format": "uuid"
				},
				"price": {
					"type": "string",
					"example": "999.00"
				},
				"product_id": {
					"type": "string",
					"format": "uuid"
				},
				"quantity": {
					"type": "integer"
				},
				"subtotal": {
					"type": "string",
					"example": "999.00"
				}
			}
		},
		"tradeapp.OrderListItemResponse": {
			"type": "object",
			"properties": {
				"created_at": {
					"type": "string",
					"format": "date-time"
				},
				"customer_id": {
					"type": "integer"
				},
				"employee_id": {
					"type": "string",
					"format": "uuid"
				},
				"id": {
					"type": "string",
					"format": "uuid"
				},
				"status": {
					"type": "string"
				},
				"total": {
					"type": "string",
					"example": "999.00"
				},
				"updated_at": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"tradeapp.OrderResponse": {
			"type": "object",
			"properties": {
				"created_at": {
					"type": "string",
					"format": "date-time"
				},
				"customer_id": {
					"type": "integer"
				},
				"employee_id": {
					"type": "string",
					"format": "uuid"
				},
				"id": {
					"type": "string",
					"format": "uuid"
				},
				"item_count": {
					"type": "integer"
				},
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/tradeapp.OrderItemResponse"
					}
				},
				"status": {
					"type": "string"
				},
				"total": {
					"type": "string",
					"example": "999.00"
				},
				"updated_at": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"tradeapp.UpdateOrderRequest": {
			"type": "object",
			"properties": {
				"customer_id": {
					"type": "integer",
					"minimum": 1
				},
				"employee_id": {
					"type": "string",
					"format": "uuid"
				},
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/tradeapp.OrderItemInput"
					}
				},
				"status": {
					"type": "string",
					"enum": [
						"pending",
						"processing",
						"completed",
						"cancelled"
					]
				}
			}
		}
	},
	"securityDefinitions": {
		"SessionCookie": {
			"description": "Signed client cookie unlocked by the shared password",
			"type": "apiKey",
			"name": "retail_client",
			"in": "cookie"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Retail Admin API",
	Description:      "Back office API for customers, employees, products and orders",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
