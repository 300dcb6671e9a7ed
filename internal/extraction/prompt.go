package extraction

// BillPrompt asks a vision model for the bill fields as one JSON object.
const BillPrompt = `Extract the following information from this bill image and format it as valid JSON:

{
  "bill_number": "",
  "bill_date": "YYYY-MM-DD",
  "location": "",
  "total_billed_amount": 0,
  "supplier": {
    "name": "",
    "gstin": "",
    "address": {
      "street": "",
      "city": "",
      "state": "",
      "pincode": ""
    },
    "phone": {
      "office": [],
      "mobile": []
    }
  },
  "party": {
    "name": "",
    "gstin": "",
    "address": {
      "street": "",
      "city": "",
      "state": "",
      "pincode": ""
    },
    "phone": {
      "office": [],
      "mobile": []
    }
  },
  "items": [
    {
      "name": "",
      "hsn": "",
      "quantity": 0,
      "rate": 0,
      "amount": 0
    }
  ]
}

Look at the image carefully and extract all visible text. For any fields you cannot find data for, use null, empty strings, or empty arrays as appropriate. Make sure the JSON format is valid.`
