// Package docs регистрирует описание API для swagger UI.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Вход в систему",
                "parameters": [
                    {
                        "description": "Учетные данные",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/login.Request"}
                    }
                ],
                "responses": {
                    "200": {"description": "Успешный вход", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Неверные учетные данные", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Текущая учётная запись",
                "responses": {
                    "200": {"description": "Учётная запись", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Требуется вход", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/donors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Donors"],
                "summary": "Справочник доноров",
                "parameters": [
                    {"type": "string", "description": "Строка поиска", "name": "q", "in": "query"},
                    {"type": "string", "description": "Группа крови или all", "name": "blood_type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Список доноров", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Donors"],
                "summary": "Регистрация донора",
                "parameters": [
                    {
                        "description": "Данные донора",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.DonorInput"}
                    }
                ],
                "responses": {
                    "201": {"description": "Донор зарегистрирован", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Телефон уже зарегистрирован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "429": {"description": "Слишком много запросов", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Очистка справочника доноров",
                "responses": {
                    "200": {"description": "Число удалённых доноров", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Требуются права администратора", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/donors/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Donors"],
                "summary": "Статистика доноров",
                "parameters": [
                    {"type": "integer", "description": "Окно недавних регистраций в днях", "name": "window_days", "in": "query", "minimum": 1, "maximum": 36500}
                ],
                "responses": {
                    "200": {"description": "Статистика", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Некорректное окно", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/donors/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Admin"],
                "summary": "Выгрузка доноров в Excel",
                "responses": {
                    "200": {"description": "Файл xlsx", "schema": {"type": "file"}}
                }
            }
        },
        "/donors/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Donors"],
                "summary": "Получение донора",
                "parameters": [{"type": "string", "description": "ID донора", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Донор", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Донор не найден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Donors"],
                "summary": "Редактирование донора",
                "parameters": [
                    {"type": "string", "description": "ID донора", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Новые данные донора",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.DonorInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "Донор обновлён", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Донор не найден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Donors"],
                "summary": "Удаление донора",
                "parameters": [{"type": "string", "description": "ID донора", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Донор удалён", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Донор не найден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/accounts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Список учётных записей",
                "parameters": [{"type": "string", "description": "Строка поиска", "name": "q", "in": "query"}],
                "responses": {
                    "200": {"description": "Учётные записи", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Создание учётной записи",
                "parameters": [
                    {
                        "description": "Данные учётной записи",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.AccountInput"}
                    }
                ],
                "responses": {
                    "201": {"description": "Учётная запись создана", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Email уже зарегистрирован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/accounts/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Редактирование учётной записи",
                "parameters": [
                    {"type": "string", "description": "ID учётной записи", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Новые данные",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.AccountInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "Учётная запись обновлена", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Удаление учётной записи",
                "parameters": [{"type": "string", "description": "ID учётной записи", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Учётная запись удалена", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "login.Request": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "models.DonorInput": {
            "type": "object",
            "required": ["address", "blood_type", "name", "phone"],
            "properties": {
                "address": {"type": "string"},
                "blood_type": {"type": "string", "example": "O+"},
                "last_donation_date": {"type": "string", "format": "date-time"},
                "name": {"type": "string"},
                "never_donated": {"type": "boolean"},
                "phone": {"type": "string", "example": "01711-000001"}
            }
        },
        "models.AccountInput": {
            "type": "object",
            "required": ["email", "name", "role", "status"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]},
                "status": {"type": "string", "enum": ["active", "inactive"]}
            }
        },
        "models.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid request body"},
                "status": {"type": "string", "example": "Error"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/models.FieldError"}},
                "status": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo содержит экспортируемую информацию Swagger, чтобы клиенты могли её изменять.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "LifeFlow Donor Registry API",
	Description:      "API справочника доноров крови: регистрация, поиск, статистика и администрирование.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
