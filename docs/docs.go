// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/property-valuation": {
            "get": {
                "description": "Looks up recorded New Taipei City transactions near the address and summarizes their unit prices",
                "produces": ["application/json"],
                "tags": ["Valuation"],
                "summary": "Estimate a property's unit price",
                "parameters": [
                    {"type": "string", "description": "Free-text address", "name": "address", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ValuationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Start a wizard session",
                "parameters": [
                    {"description": "Wallet address", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.SessionTokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/sessions/current": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Get the current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Session"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "End the current session",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/sessions/current/kyc/skip": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Skip identity verification",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Session"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/sessions/current/valuation": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Value the session's property",
                "parameters": [
                    {"description": "Property address and labels", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SessionValuationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SessionValuationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/sessions/current/assets/image": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Pin an asset image to IPFS",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PinResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/sessions/current/mint": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Mint the valued property as an NFT",
                "parameters": [
                    {"description": "Certificate fields", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/models.MintRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.MintResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "402": {"description": "Payment Required", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/sessions/current/loan/quote": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Quote a loan against the minted asset",
                "parameters": [
                    {"type": "integer", "description": "Loan amount", "name": "amount", "in": "query"},
                    {"type": "integer", "description": "Term in days", "name": "termDays", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Loan"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/sessions/current/loan": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Configure the loan",
                "parameters": [
                    {"description": "Loan amount and term", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Loan"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/kyc/self-verify": {
            "post": {
                "description": "Called by the identity relayer. Always answers 200; the outcome is in the body.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["KYC"],
                "summary": "Identity proof callback",
                "parameters": [
                    {"description": "Proof payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SelfVerifyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SelfVerifyResponse"}}
                }
            }
        },
        "/kyc/traditional-upload": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["KYC"],
                "summary": "Submit documents for manual KYC review",
                "parameters": [
                    {"type": "string", "name": "fullName", "in": "formData", "required": true},
                    {"type": "string", "name": "idType", "in": "formData", "required": true},
                    {"type": "string", "name": "idNumber", "in": "formData", "required": true},
                    {"type": "string", "description": "YYYY-MM-DD", "name": "birthDate", "in": "formData", "required": true},
                    {"type": "file", "name": "idDocument", "in": "formData", "required": true},
                    {"type": "file", "name": "selfiePhoto", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/admin/kyc/{kycId}/review": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Approve or reject a manual KYC submission",
                "parameters": [
                    {"type": "string", "name": "kycId", "in": "path", "required": true},
                    {"type": "string", "name": "X-Admin-Key", "in": "header", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.KYCReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.KYCSubmission"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/assets/{assetId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Assets"],
                "summary": "Get a minted asset",
                "parameters": [
                    {"type": "string", "name": "assetId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Asset"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "models.PriceRange": {
            "type": "object",
            "properties": {"min": {"type": "number"}, "max": {"type": "number"}}
        },
        "models.RecentTransaction": {
            "type": "object",
            "properties": {
                "district": {"type": "string"}, "address": {"type": "string"},
                "price": {"type": "integer"}, "pricePerSqm": {"type": "integer"}, "area": {"type": "number"},
                "buildingType": {"type": "string"}, "rooms": {"type": "string"}, "livingRooms": {"type": "string"},
                "bathrooms": {"type": "string"}, "floor": {"type": "string"}, "totalFloors": {"type": "string"},
                "transactionDate": {"type": "string"}, "buildYear": {"type": "string"}
            }
        },
        "models.ValuationResult": {
            "type": "object",
            "properties": {
                "searchAddress": {"type": "string"},
                "matchCount": {"type": "integer"},
                "estimatedValue": {"type": "integer"},
                "priceRange": {"$ref": "#/definitions/models.PriceRange"},
                "recentTransactions": {"type": "array", "items": {"$ref": "#/definitions/models.RecentTransaction"}}
            }
        },
        "models.ValuationResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "data": {"$ref": "#/definitions/models.ValuationResult"}}
        },
        "models.CreateSessionRequest": {
            "type": "object",
            "required": ["walletAddress"],
            "properties": {"walletAddress": {"type": "string", "example": "0x5B38Da6a701c568545dCfcB03FcB875f56beddC4"}}
        },
        "models.SessionTokenResponse": {
            "type": "object",
            "properties": {"sessionId": {"type": "string"}, "token": {"type": "string"}, "expiresIn": {"type": "string"}, "tokenType": {"type": "string"}}
        },
        "models.Session": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "walletAddress": {"type": "string"},
                "stage": {"type": "string", "enum": ["wallet_connected", "kyc_verified", "valued", "minted", "loan_configured"]},
                "kyc": {"type": "object", "additionalProperties": true},
                "valuation": {"type": "object", "additionalProperties": true},
                "asset": {"type": "object", "additionalProperties": true},
                "loan": {"$ref": "#/definitions/models.Loan"},
                "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}
            }
        },
        "models.SessionValuationRequest": {
            "type": "object",
            "required": ["address"],
            "properties": {"address": {"type": "string"}, "assetName": {"type": "string"}, "assetType": {"type": "string"}}
        },
        "models.SessionValuationResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/models.ValuationResult"},
                "session": {"$ref": "#/definitions/models.Session"}
            }
        },
        "models.MintRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "assetType": {"type": "string"}, "image": {"type": "string"}}
        },
        "models.MintResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}, "assetId": {"type": "string"}, "tokenId": {"type": "string"},
                "transactionHash": {"type": "string"}, "tokenUri": {"type": "string"}, "explorerUrl": {"type": "string"}
            }
        },
        "models.PinResponse": {
            "type": "object",
            "properties": {"uri": {"type": "string"}, "gatewayUrl": {"type": "string"}}
        },
        "models.LoanRequest": {
            "type": "object",
            "required": ["loanAmount", "termDays"],
            "properties": {"loanAmount": {"type": "integer"}, "termDays": {"type": "integer"}}
        },
        "models.Loan": {
            "type": "object",
            "properties": {
                "loanAmount": {"type": "integer"}, "termDays": {"type": "integer"}, "interest": {"type": "integer"},
                "actualAmount": {"type": "integer"}, "annualRate": {"type": "number"}, "maxLtv": {"type": "number"},
                "maxLoanAmount": {"type": "integer"}, "valuation": {"type": "integer"}, "configuredAt": {"type": "string"}
            }
        },
        "models.Asset": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "sessionId": {"type": "string"}, "ownerAddress": {"type": "string"},
                "name": {"type": "string"}, "description": {"type": "string"}, "assetType": {"type": "string"},
                "address": {"type": "string"}, "estimatedValue": {"type": "integer"}, "tokenId": {"type": "string"},
                "transactionHash": {"type": "string"}, "tokenUri": {"type": "string"}, "imageUri": {"type": "string"},
                "chainId": {"type": "integer"}, "contractAddress": {"type": "string"},
                "loan": {"$ref": "#/definitions/models.Loan"}, "mintedAt": {"type": "string"}
            }
        },
        "models.SelfVerifyRequest": {
            "type": "object",
            "properties": {
                "attestationId": {}, "proof": {},
                "publicSignals": {"type": "array", "items": {}},
                "userContextData": {"type": "string"}
            }
        },
        "models.SelfVerifyResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["success", "error"]},
                "result": {"type": "boolean"}, "message": {"type": "string"}, "details": {}, "data": {}
            }
        },
        "models.KYCReviewRequest": {
            "type": "object",
            "required": ["approved"],
            "properties": {"approved": {"type": "boolean"}, "note": {"type": "string"}}
        },
        "models.KYCSubmission": {
            "type": "object",
            "properties": {
                "kycId": {"type": "string"}, "sessionId": {"type": "string"}, "walletAddress": {"type": "string"},
                "fullName": {"type": "string"}, "idType": {"type": "string"}, "birthDate": {"type": "string"},
                "status": {"type": "string"}, "reviewNote": {"type": "string"},
                "submittedAt": {"type": "string"}, "reviewedAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "On-chain RE Lending API",
	Description:      "Property valuation over New Taipei City open data, identity verification, NFT minting and loan setup.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
